package departments

import "context"

// NewDepartment carries the fields of a department insert.
type NewDepartment struct {
	ID          string
	Name        string
	Description string
}

// UpdateFields carries a partial department update. Nil pointers leave the
// column untouched.
type UpdateFields struct {
	Name        *string
	Description *string
}

// RepositoryPort defines data access methods for departments.
type RepositoryPort interface {
	List(ctx context.Context) ([]Department, error)
	FindByID(ctx context.Context, id string) (*Department, error)
	Create(ctx context.Context, department NewDepartment) (*Department, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Department, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
