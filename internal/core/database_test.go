// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := connectWithRetry(context.Background(), "postgres", 3, time.Millisecond,
			func(context.Context) error {
				calls++
				if calls < 3 {
					return errors.New("connection refused")
				}
				return nil
			})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := connectWithRetry(context.Background(), "redis", 2, time.Millisecond,
			func(context.Context) error {
				calls++
				return errors.New("connection refused")
			})

		require.Error(t, err)
		assert.Equal(t, 2, calls)
		assert.Contains(t, err.Error(), "connect redis after 2 attempts")
	})

	t.Run("stops waiting when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		err := connectWithRetry(ctx, "postgres", 5, time.Hour,
			func(context.Context) error {
				cancel()
				return errors.New("connection refused")
			})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("create application: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestJitteredDuration(t *testing.T) {
	base := time.Hour
	for range 20 {
		got := jitteredDuration(base)
		assert.GreaterOrEqual(t, got, base)
		assert.Less(t, got, base+base/7)
	}

	assert.Equal(t, time.Duration(0), jitteredDuration(0))
}
