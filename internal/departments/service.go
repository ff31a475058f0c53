package departments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stafflane/stafflane/internal/platform/httpx"
)

// Service handles department business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all departments.
func (s *Service) List(ctx context.Context) ([]Department, error) {
	return s.repo.List(ctx)
}

// Get fetches one department.
func (s *Service) Get(ctx context.Context, id string) (*Department, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a department with a generated id.
func (s *Service) Create(ctx context.Context, name, description string) (*Department, error) {
	return s.repo.Create(ctx, NewDepartment{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	})
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, fields UpdateFields) (*Department, error) {
	return s.repo.Update(ctx, id, fields)
}

// SetStatus flips a department between active and inactive. Any other value
// is a validation error.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusInactive {
		return fmt.Errorf("%w: status must be %q or %q", httpx.ErrValidation, StatusActive, StatusInactive)
	}
	return s.repo.SetStatus(ctx, id, status)
}

// Delete removes a department permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
