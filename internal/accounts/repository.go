package accounts

import (
	"context"

	"github.com/stafflane/stafflane/internal/shared"
)

// ListFilters narrows an account listing. Empty fields are ignored.
type ListFilters struct {
	DepartmentID string
	UserTypeID   string
	Status       string
	AccountID    string
	Page         shared.Pagination
}

// NewAccount carries the fields of an account insert.
type NewAccount struct {
	ID           string
	Fullname     string
	Username     string
	Email        string
	PasswordHash string
	DepartmentID string
	UserTypeID   string
	RoleID       string
}

// UpdateFields carries a partial account update. Nil pointers leave the
// column untouched; a non-nil empty string clears a nullable column.
type UpdateFields struct {
	Fullname     *string
	Username     *string
	Email        *string
	PasswordHash *string
	DepartmentID *string
	UserTypeID   *string
	RoleID       *string
}

func (u UpdateFields) empty() bool {
	return u.Fullname == nil && u.Username == nil && u.Email == nil &&
		u.PasswordHash == nil && u.DepartmentID == nil && u.UserTypeID == nil &&
		u.RoleID == nil
}

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account NewAccount) (*Account, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Account, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error

	// DepartmentOf returns the department of an account, empty when the
	// account has none. Also serves the authorization engine's ownership
	// lookups.
	DepartmentOf(ctx context.Context, id string) (string, error)

	RoleExists(ctx context.Context, id string) (bool, error)
	UserTypeExists(ctx context.Context, id string) (bool, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
}
