// Package server — metrics.go registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the review and capture counters.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// reviewRequestsTotal counts completed /api/review requests, partitioned
	// by outcome: "ok", "invalid", or "error".
	reviewRequestsTotal *prometheus.CounterVec

	// reviewDurationSeconds records the wall-clock duration of successful
	// /api/review requests.
	reviewDurationSeconds prometheus.Histogram

	// reviewTruncatedTotal counts reviews whose transcript was truncated to
	// fit the token budget.
	reviewTruncatedTotal prometheus.Counter

	// captureRequestsTotal counts completed /api/capture requests, partitioned
	// by outcome: "ok", "invalid", or "error".
	captureRequestsTotal *prometheus.CounterVec

	// captureDurationSeconds records the wall-clock duration of successful
	// /api/capture requests.
	captureDurationSeconds prometheus.Histogram

	// httpRequestsTotal counts all HTTP requests handled by the mux,
	// partitioned by method, path pattern, and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global default —
// this keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		reviewRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "halo",
			Subsystem: "review",
			Name:      "requests_total",
			Help:      "Total number of /api/review requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		reviewDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "halo",
			Subsystem: "review",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of successful /api/review requests.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		reviewTruncatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "halo",
			Subsystem: "review",
			Name:      "truncated_total",
			Help:      "Number of reviews whose transcript was truncated to fit the token budget.",
		}),

		captureRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "halo",
			Subsystem: "capture",
			Name:      "requests_total",
			Help:      "Total number of /api/capture requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		captureDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "halo",
			Subsystem: "capture",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of successful /api/capture requests.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "halo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, handler, and status code.",
		}, []string{"method", "handler", "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "halo",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "handler"}),
	}
}

// instrument records request count and latency for one route, labelled by the
// route pattern rather than the raw URL to keep label cardinality bounded.
func (m *serverMetrics) instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		m.httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rw.status)).Inc()
		m.httpDurationSeconds.WithLabelValues(r.Method, pattern).Observe(elapsed.Seconds())
	})
}
