package roles

import "context"

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id string) (*Role, error)
}
