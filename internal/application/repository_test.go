// AngelaMos | 2026
// repository_test.go

package application

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/jobboard/internal/core"
)

// pgFailure is a database/sql connector whose every statement fails with
// the given postgres error, the way pgx reports constraint violations.
type pgFailure struct {
	err *pgconn.PgError
}

func (p pgFailure) Connect(context.Context) (driver.Conn, error) { return pgFailureConn(p), nil }
func (p pgFailure) Driver() driver.Driver                        { return p }
func (p pgFailure) Open(string) (driver.Conn, error)             { return pgFailureConn(p), nil }

type pgFailureConn struct {
	err *pgconn.PgError
}

func (c pgFailureConn) Prepare(string) (driver.Stmt, error) { return nil, c.err }
func (c pgFailureConn) Close() error                        { return nil }
func (c pgFailureConn) Begin() (driver.Tx, error)           { return nil, c.err }

func (c pgFailureConn) QueryContext(
	context.Context,
	string,
	[]driver.NamedValue,
) (driver.Rows, error) {
	return nil, c.err
}

func (c pgFailureConn) ExecContext(
	context.Context,
	string,
	[]driver.NamedValue,
) (driver.Result, error) {
	return nil, c.err
}

func failingRepo(t *testing.T, code string) Repository {
	t.Helper()
	db := sqlx.NewDb(sql.OpenDB(pgFailure{err: &pgconn.PgError{
		Code:           code,
		ConstraintName: "applications_live_user_job_key",
	}}), "pgx")
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func TestRepositoryCreateMapsConstraintViolations(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"live pair already exists", "23505", core.ErrDuplicateKey},
		{"user or job gone", "23503", core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := failingRepo(t, tt.code)
			err := repo.Create(context.Background(), &Application{
				CoverLetter: "hello",
				ResumePath:  "/v1/profiles/resumes/a.pdf",
				Status:      StatusPending,
				UserID:      1,
				JobID:       7,
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// racedRepo reports no live application, as a concurrent request would
// see just before the other request's insert commits.
type racedRepo struct {
	Repository
}

func (racedRepo) ExistsLive(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func TestApplyUniqueViolationConflicts(t *testing.T) {
	cat := newCatalog()
	cat.addUser(1, "/v1/profiles/resumes/a.pdf")
	cat.addJob(7, true)
	rec := &countingRecorder{}

	svc := NewService(racedRepo{Repository: failingRepo(t, "23505")}, cat, cat, rec)

	_, err := svc.Apply(context.Background(), 1, ApplyRequest{JobID: 7, CoverLetter: "race"})
	require.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "You have already applied to this job", err.Error())
	assert.Equal(t, 1, rec.count("conflict"))
	assert.Equal(t, 0, rec.count("submitted"))
}
