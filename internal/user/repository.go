// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64, scope core.Scope) (*User, error)
	GetByEmail(ctx context.Context, email string, scope core.Scope) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error
	ResumeRef(ctx context.Context, id int64) (*string, error)
	SetResumeRef(ctx context.Context, id int64, ref *string) error
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Count(ctx context.Context, scope core.Scope) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, location,
	refresh_token_hash, role, resume_url, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, location, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Location,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
	scope core.Scope,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1 AND %s`,
		userColumns,
		scope.Predicate(""),
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
	scope core.Scope,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE email = $1 AND %s`,
		userColumns,
		scope.Predicate(""),
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, location = $5,
		    role = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Location,
		user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	return r.execOne(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash,
	)
}

func (r *repository) SetRefreshTokenHash(
	ctx context.Context,
	id int64,
	hash *string,
) error {
	return r.execOne(ctx, "set refresh token", `
		UPDATE users
		SET refresh_token_hash = $2
		WHERE id = $1`,
		id, hash,
	)
}

func (r *repository) ResumeRef(ctx context.Context, id int64) (*string, error) {
	var ref *string
	err := r.db.GetContext(ctx, &ref, `SELECT resume_url FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get resume ref: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume ref: %w", err)
	}
	return ref, nil
}

func (r *repository) SetResumeRef(
	ctx context.Context,
	id int64,
	ref *string,
) error {
	return r.execOne(ctx, "set resume ref", `
		UPDATE users
		SET resume_url = $2, updated_at = NOW()
		WHERE id = $1`,
		id, ref,
	)
}

// SoftDelete also drops the refresh token so the account cannot refresh a
// session while it is hidden.
func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete user", `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW(), refresh_token_hash = NULL
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
}

func (r *repository) HardDelete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "hard delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, "restore user", `
		UPDATE users
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL`,
		id,
	)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, core.ScopeFor(params.ShowDeleted).Predicate(""))

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, core.ILikePattern(params.Search))
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// EmailTaken checks every row, deleted or not, because the unique index does.
func (r *repository) EmailTaken(
	ctx context.Context,
	email string,
	excludeID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, excludeID); err != nil {
		return false, fmt.Errorf("check email taken: %w", err)
	}

	return exists, nil
}

func (r *repository) Count(ctx context.Context, scope core.Scope) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE %s`, scope.Predicate(""))
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
