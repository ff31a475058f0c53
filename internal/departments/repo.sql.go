package departments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const departmentColumns = `id, name, COALESCE(description, ''), status, created_at, updated_at`

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all departments ordered by name.
func (r *Repository) List(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches one department.
func (r *Repository) FindByID(ctx context.Context, id string) (*Department, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id)
	return scanDepartment(row)
}

// Create inserts a department. Name collisions surface as httpx.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, department NewDepartment) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO departments (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, now(), now())
		RETURNING `+departmentColumns,
		department.ID, department.Name, department.Description, StatusActive)
	created, err := scanDepartment(row)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return created, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (*Department, error) {
	var (
		sets []string
		args []any
	)
	set := func(expr string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if fields.Name != nil {
		set("name = $%d", *fields.Name)
	}
	if fields.Description != nil {
		set("description = NULLIF($%d, '')", *fields.Description)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE departments SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), departmentColumns)

	updated, err := scanDepartment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return updated, nil
}

// SetStatus flips a department's status.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE departments SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a department permanently. Member accounts keep running with
// department_id set to NULL via the schema's ON DELETE SET NULL.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
