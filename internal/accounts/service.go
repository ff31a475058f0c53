package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/stafflane/internal/platform/httpx"
)

// Service handles account business logic.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// CreateInput carries a validated create request.
type CreateInput struct {
	Fullname     string
	Username     string
	Email        string
	Password     string
	DepartmentID string
	UserTypeID   string
	RoleID       string
}

// UpdateInput carries a partial update request. Nil fields stay unchanged.
type UpdateInput struct {
	Fullname     *string
	Username     *string
	Email        *string
	Password     *string
	DepartmentID *string
	UserTypeID   *string
	RoleID       *string
}

// List returns accounts matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Account, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates references, hashes the password and inserts the account.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Account, error) {
	if err := s.checkReferences(ctx, &input.RoleID, strPtr(input.DepartmentID), strPtr(input.UserTypeID)); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash password: %w", err)
	}
	return s.repo.Create(ctx, NewAccount{
		ID:           uuid.NewString(),
		Fullname:     input.Fullname,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		DepartmentID: input.DepartmentID,
		UserTypeID:   input.UserTypeID,
		RoleID:       input.RoleID,
	})
}

// Update applies a partial update, rehashing the password when supplied.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Account, error) {
	if err := s.checkReferences(ctx, input.RoleID, input.DepartmentID, input.UserTypeID); err != nil {
		return nil, err
	}
	fields := UpdateFields{
		Fullname:     input.Fullname,
		Username:     input.Username,
		Email:        input.Email,
		DepartmentID: input.DepartmentID,
		UserTypeID:   input.UserTypeID,
		RoleID:       input.RoleID,
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("accounts: hash password: %w", err)
		}
		hashed := string(hash)
		fields.PasswordHash = &hashed
	}
	return s.repo.Update(ctx, id, fields)
}

// Disable marks an account disabled. Disabled accounts keep their data but
// can no longer authenticate.
func (s *Service) Disable(ctx context.Context, id string) error {
	return s.repo.SetStatus(ctx, id, StatusDisabled)
}

// Delete removes an account permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// checkReferences verifies foreign keys before writing, so the caller gets a
// validation error instead of a bare constraint violation.
func (s *Service) checkReferences(ctx context.Context, roleID, departmentID, userTypeID *string) error {
	if roleID != nil && *roleID != "" {
		ok, err := s.repo.RoleExists(ctx, *roleID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, *roleID)
		}
	}
	if departmentID != nil && *departmentID != "" {
		ok, err := s.repo.DepartmentExists(ctx, *departmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown department %q", httpx.ErrValidation, *departmentID)
		}
	}
	if userTypeID != nil && *userTypeID != "" {
		ok, err := s.repo.UserTypeExists(ctx, *userTypeID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown user type %q", httpx.ErrValidation, *userTypeID)
		}
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
