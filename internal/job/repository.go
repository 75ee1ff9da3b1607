// AngelaMos | 2026
// repository.go

package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64, scope core.Scope) (*Job, error)
	GetPublished(ctx context.Context, id int64) (*Job, error)
	Update(ctx context.Context, job *Job) error
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	List(ctx context.Context, params ListJobsParams) ([]Job, int, error)
	Count(ctx context.Context, scope core.Scope) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const jobColumns = `id, title, company, location, description, category, type,
	remote, requirements, salary_range, is_published, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (title, company, location, description, category, type,
		                  remote, requirements, salary_range, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.Category,
		job.Type,
		job.Remote,
		job.Requirements,
		job.SalaryRange,
		job.IsPublished,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
	scope core.Scope,
) (*Job, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE id = $1 AND %s`,
		jobColumns,
		scope.Predicate(""),
	)
	return r.getOne(ctx, "get job", query, id)
}

func (r *repository) GetPublished(ctx context.Context, id int64) (*Job, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE id = $1 AND is_published AND deleted_at IS NULL`,
		jobColumns,
	)
	return r.getOne(ctx, "get published job", query, id)
}

func (r *repository) getOne(ctx context.Context, op, query string, args ...any) (*Job, error) {
	var job Job
	err := r.db.GetContext(ctx, &job, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &job, nil
}

// Update writes every mutable column; it does not look at deleted_at so
// admins can edit hidden jobs.
func (r *repository) Update(ctx context.Context, job *Job) error {
	query := `
		UPDATE jobs
		SET title = $2, company = $3, location = $4, description = $5,
		    category = $6, type = $7, remote = $8, requirements = $9,
		    salary_range = $10, is_published = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &job.UpdatedAt, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.Category,
		job.Type,
		job.Remote,
		job.Requirements,
		job.SalaryRange,
		job.IsPublished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update job: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete job", `
		UPDATE jobs
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
}

func (r *repository) HardDelete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "hard delete job", `DELETE FROM jobs WHERE id = $1`, id)
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	return r.execOne(ctx, "restore job", `
		UPDATE jobs
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL`,
		id,
	)
}

func (r *repository) List(
	ctx context.Context,
	params ListJobsParams,
) ([]Job, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, core.ScopeFor(params.ShowDeleted).Predicate(""))

	if params.PublishedOnly {
		conditions = append(conditions, "is_published")
	}

	for _, f := range []struct{ column, value string }{
		{"company", params.Company},
		{"location", params.Location},
		{"title", params.Title},
	} {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", f.column, argIdx))
		args = append(args, core.ILikePattern(f.value))
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM jobs WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset())

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *repository) Count(ctx context.Context, scope core.Scope) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, scope.Predicate(""))
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
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
