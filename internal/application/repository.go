// AngelaMos | 2026
// repository.go

package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	ExistsLive(ctx context.Context, userID, jobID int64) (bool, error)
	GetByID(ctx context.Context, id int64, scope core.Scope) (*Details, error)
	GetForOwner(ctx context.Context, id, userID int64, scope core.Scope) (*Details, error)
	ListForUser(ctx context.Context, userID int64, params core.PageParams) ([]Details, int, error)
	ListForAdmin(ctx context.Context, params ListApplicationsParams) ([]Details, int, error)
	Withdraw(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const detailsSelect = `
	SELECT a.id, a.cover_letter, a.resume_path, a.status, a.user_id, a.job_id,
	       a.created_at, a.updated_at, a.deleted_at,
	       j.title AS job_title, j.company AS job_company,
	       u.email AS user_email, u.first_name AS user_first_name,
	       u.last_name AS user_last_name
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.user_id`

// Create relies on the partial unique index over live (user_id, job_id)
// pairs; a violation comes back as core.ErrDuplicateKey. A user or job
// hard deleted in the meantime comes back as core.ErrNotFound.
func (r *repository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (cover_letter, resume_path, status, user_id, job_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		app.CoverLetter,
		app.ResumePath,
		app.Status,
		app.UserID,
		app.JobID,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create application: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create application: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

func (r *repository) ExistsLive(ctx context.Context, userID, jobID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE user_id = $1 AND job_id = $2 AND deleted_at IS NULL
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, jobID); err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return exists, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
	scope core.Scope,
) (*Details, error) {
	query := fmt.Sprintf(`%s WHERE a.id = $1 AND %s`, detailsSelect, scope.Predicate("a"))
	return r.getOne(ctx, "get application", query, id)
}

func (r *repository) GetForOwner(
	ctx context.Context,
	id, userID int64,
	scope core.Scope,
) (*Details, error) {
	query := fmt.Sprintf(
		`%s WHERE a.id = $1 AND a.user_id = $2 AND %s`,
		detailsSelect,
		scope.Predicate("a"),
	)
	return r.getOne(ctx, "get own application", query, id, userID)
}

func (r *repository) getOne(ctx context.Context, op, query string, args ...any) (*Details, error) {
	var d Details
	err := r.db.GetContext(ctx, &d, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// ListForUser hides withdrawn applications and those whose job has been
// soft-deleted.
func (r *repository) ListForUser(
	ctx context.Context,
	userID int64,
	params core.PageParams,
) ([]Details, int, error) {
	params.Normalize()

	where := "a.user_id = $1 AND a.deleted_at IS NULL AND j.deleted_at IS NULL"

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`, detailsSelect, where)

	var items []Details
	if err := r.db.SelectContext(ctx, &items, query, userID, params.Limit, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return items, total, nil
}

func (r *repository) ListForAdmin(
	ctx context.Context,
	params ListApplicationsParams,
) ([]Details, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, core.ScopeFor(params.ShowDeleted).Predicate("a"))

	if params.JobID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", argIdx))
		args = append(args, params.JobID)
		argIdx++
	}

	if params.UserID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM applications a WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d`,
		detailsSelect, whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset())

	var items []Details
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return items, total, nil
}

func (r *repository) Withdraw(ctx context.Context, id int64) error {
	return r.execOne(ctx, "withdraw application", `
		UPDATE applications
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.execOne(ctx, "update application status", `
		UPDATE applications
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, status,
	)
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}{}

	query := `
		SELECT status, COUNT(*) AS n
		FROM applications
		WHERE deleted_at IS NULL
		GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
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
