package accounts

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

const accountColumns = `id, fullname, username, email,
	COALESCE(department_id, ''), COALESCE(user_type_id, ''), role_id, status,
	created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Fullname, &a.Username, &a.Email,
		&a.DepartmentID, &a.UserTypeID, &a.RoleID, &a.Status,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns accounts matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Account, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filters.DepartmentID != "" {
		add("department_id = $%d", filters.DepartmentID)
	}
	if filters.UserTypeID != "" {
		add("user_type_id = $%d", filters.UserTypeID)
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.AccountID != "" {
		add("id = $%d", filters.AccountID)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filters.Page.Limit, filters.Page.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches one account.
func (r *Repository) FindByID(ctx context.Context, id string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// Create inserts an account. Username and email collisions surface as
// httpx.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, account NewAccount) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, fullname, username, email, password_hash,
			department_id, user_type_id, role_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, now(), now())
		RETURNING `+accountColumns,
		account.ID, account.Fullname, account.Username, account.Email,
		account.PasswordHash, account.DepartmentID, account.UserTypeID,
		account.RoleID, StatusActive)
	created, err := scanAccount(row)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return created, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (*Account, error) {
	if fields.empty() {
		return r.FindByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	set := func(expr string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if fields.Fullname != nil {
		set("fullname = $%d", *fields.Fullname)
	}
	if fields.Username != nil {
		set("username = $%d", *fields.Username)
	}
	if fields.Email != nil {
		set("email = $%d", *fields.Email)
	}
	if fields.PasswordHash != nil {
		set("password_hash = $%d", *fields.PasswordHash)
	}
	if fields.DepartmentID != nil {
		set("department_id = NULLIF($%d, '')", *fields.DepartmentID)
	}
	if fields.UserTypeID != nil {
		set("user_type_id = NULLIF($%d, '')", *fields.UserTypeID)
	}
	if fields.RoleID != nil {
		set("role_id = $%d", *fields.RoleID)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)

	updated, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return updated, nil
}

// SetStatus flips an account's status.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an account permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DepartmentOf returns the department of an account, empty when unassigned.
func (r *Repository) DepartmentOf(ctx context.Context, id string) (string, error) {
	var dept string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(department_id, '') FROM accounts WHERE id = $1`, id).Scan(&dept)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return dept, nil
}

// RoleExists reports whether a role id is valid.
func (r *Repository) RoleExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, id)
}

// UserTypeExists reports whether a user type id is valid.
func (r *Repository) UserTypeExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM user_types WHERE id = $1)`, id)
}

// DepartmentExists reports whether a department id is valid.
func (r *Repository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, id)
}

func (r *Repository) exists(ctx context.Context, query, id string) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
