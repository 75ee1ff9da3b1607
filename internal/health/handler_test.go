// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestReadiness(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := NewHandler(
			Dependency{Name: "database", Checker: pingFunc(healthy)},
			Dependency{Name: "redis", Checker: pingFunc(healthy)},
		)

		rec, body := get(t, h, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body.Status)
		require.Len(t, body.Checks, 2)
		assert.Equal(t, "database", body.Checks[0].Name)
		assert.Equal(t, "redis", body.Checks[1].Name)
	})

	t.Run("one failing", func(t *testing.T) {
		h := NewHandler(
			Dependency{Name: "database", Checker: pingFunc(healthy)},
			Dependency{Name: "storage", Checker: pingFunc(func(context.Context) error {
				return errors.New("bucket gone")
			})},
		)

		rec, body := get(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", body.Status)
		assert.False(t, body.Checks[1].Healthy)
		assert.Equal(t, "ping failed", body.Checks[1].Message)
	})

	t.Run("missing checker", func(t *testing.T) {
		h := NewHandler(Dependency{Name: "redis"})

		rec, body := get(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not configured", body.Checks[0].Message)
	})
}

func TestShutdownFlipsProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "database", Checker: pingFunc(healthy)})

	rec, _ := get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Status)

	h.SetShutdown(true)
	rec, body = get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body.Status)
}
