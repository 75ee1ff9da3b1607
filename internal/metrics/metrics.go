// AngelaMos | 2026
// metrics.go

// Package metrics owns every Prometheus collector the API exports.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/jobboard/internal/middleware"
)

const namespace = "jobboard"

var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route pattern and status.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthLoginsTotal result: success, invalid_credentials, error.
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Login attempts by result.",
	},
	[]string{"result"},
)

// ApplicationsTotal event: submitted, withdrawn, status_changed, conflict.
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Application workflow events.",
	},
	[]string{"event"},
)

// ResumesTotal event: uploaded, replaced, deleted, rejected.
var ResumesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resumes_total",
		Help:      "Resume storage events.",
	},
	[]string{"event"},
)

// RateLimitedTotal limiter: global, login, resume_upload.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by a rate limiter.",
	},
	[]string{"limiter"},
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency labelled by chi route
// pattern so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := middleware.NewResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Recorder adapts the domain counters to the small interfaces services
// depend on.
type Recorder struct{}

func (Recorder) Login(result string) {
	AuthLoginsTotal.WithLabelValues(result).Inc()
}

func (Recorder) Application(event string) {
	ApplicationsTotal.WithLabelValues(event).Inc()
}

func (Recorder) Resume(event string) {
	ResumesTotal.WithLabelValues(event).Inc()
}

func (Recorder) RateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}
