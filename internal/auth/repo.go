package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stafflane/stafflane/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	// FindByLogin fetches a credential by username or email.
	FindByLogin(ctx context.Context, usernameOrEmail string) (*Credential, error)
	// FindByID fetches a credential by account id.
	FindByID(ctx context.Context, id string) (*Credential, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const credentialQuery = `
SELECT a.id, a.username, a.email, a.password_hash, a.status,
       COALESCE(a.department_id, ''), a.role_id, r.name,
       COALESCE(a.user_type_id, ''), COALESCE(ut.name, ''),
       a.created_at, a.updated_at
FROM accounts a
JOIN roles r ON r.id = a.role_id
LEFT JOIN user_types ut ON ut.id = a.user_type_id
`

// FindByLogin fetches a credential by username or email.
func (r *PGRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (*Credential, error) {
	row := r.pool.QueryRow(ctx, credentialQuery+`WHERE a.username = $1 OR a.email = $1`, usernameOrEmail)
	return scanCredential(row)
}

// FindByID fetches a credential by account id.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Credential, error) {
	row := r.pool.QueryRow(ctx, credentialQuery+`WHERE a.id = $1`, id)
	return scanCredential(row)
}

func scanCredential(row pgx.Row) (*Credential, error) {
	var c Credential
	err := row.Scan(
		&c.ID, &c.Username, &c.Email, &c.PasswordHash, &c.Status,
		&c.DepartmentID, &c.RoleID, &c.RoleName,
		&c.UserTypeID, &c.UserTypeName,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
