// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

type JobCounter interface {
	CountJobs(ctx context.Context) (active, total int, err error)
}

type ApplicationCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	dbStats      func() sql.DBStats
	redisStats   func() *redis.PoolStats
	dbPing       func(ctx context.Context) error
	redisPing    func(ctx context.Context) error
	users        UserCounter
	jobs         JobCounter
	applications ApplicationCounter
}

// HandlerConfig fields are optional; a missing source is reported as
// absent rather than failing the request.
type HandlerConfig struct {
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	DBPing       func(ctx context.Context) error
	RedisPing    func(ctx context.Context) error
	Users        UserCounter
	Jobs         JobCounter
	Applications ApplicationCounter
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:      cfg.DBStats,
		redisStats:   cfg.RedisStats,
		dbPing:       cfg.DBPing,
		redisPing:    cfg.RedisPing,
		users:        cfg.Users,
		jobs:         cfg.Jobs,
		applications: cfg.Applications,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, authorize func(http.Handler) http.Handler,
) {
	r.With(authenticator, authorize).Get("/admin/stats", h.GetStats)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	board, err := h.boardStats(ctx)
	if err != nil {
		core.JSONError(w, r, err)
		return
	}

	core.OK(w, "Stats fetched successfully", StatsResponse{
		Board: board,
		Database: DatabaseStatus{
			Healthy: ping(ctx, "database", h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, "redis", h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: runtimeStats(),
	})
}

func (h *Handler) boardStats(ctx context.Context) (BoardStats, error) {
	var stats BoardStats

	if h.users != nil {
		n, err := h.users.CountUsers(ctx)
		if err != nil {
			return stats, err
		}
		stats.Users = n
	}

	if h.jobs != nil {
		active, total, err := h.jobs.CountJobs(ctx)
		if err != nil {
			return stats, err
		}
		stats.ActiveJobs = active
		stats.TotalJobs = total
	}

	if h.applications != nil {
		byStatus, err := h.applications.CountByStatus(ctx)
		if err != nil {
			return stats, err
		}
		stats.ApplicationsByStatus = byStatus
		for _, n := range byStatus {
			stats.Applications += n
		}
	}

	return stats, nil
}

func ping(ctx context.Context, name string, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}
	if err := fn(ctx); err != nil {
		slog.WarnContext(ctx, "stats ping failed", "dependency", name, "error", err)
		return false
	}
	return true
}

func runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

type StatsResponse struct {
	Board    BoardStats     `json:"board"`
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

// BoardStats counts live rows; TotalJobs also includes soft-deleted jobs.
type BoardStats struct {
	Users                int            `json:"users"`
	ActiveJobs           int            `json:"activeJobs"`
	TotalJobs            int            `json:"totalJobs"`
	Applications         int            `json:"applications"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
