package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/megalab/halo/internal/logging"
)

// probeTimeout bounds each dependency probe during a readiness check, so
// /api/ready answers quickly when a dependency is slow rather than down.
const probeTimeout = 5 * time.Second

// Pinger is implemented by any dependency that can report its own
// reachability: nil when healthy, a descriptive error otherwise.
// Implementations must be safe for concurrent use.
type Pinger interface {
	// Ping checks the dependency within ctx.
	Ping(ctx context.Context) error

	// Name is the short label used in readiness responses
	// (e.g. "store", "qdrant").
	Name() string
}

// MultiPinger aggregates several Pingers into one. Unlike a readiness check,
// which reports per-dependency results, Ping runs every probe and joins all
// failures so a caller sees the complete picture in one error.
type MultiPinger struct {
	pingers []Pinger
}

// NewMultiPinger constructs a MultiPinger over the given probes.
func NewMultiPinger(pingers ...Pinger) *MultiPinger {
	return &MultiPinger{pingers: pingers}
}

// Ping probes every dependency and returns the joined failures, or nil when
// all are healthy.
func (m *MultiPinger) Ping(ctx context.Context) error {
	var errs []error
	for _, p := range m.pingers {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Name returns a combined label for logging purposes.
func (m *MultiPinger) Name() string { return "multi" }

// handleHealth handles GET /api/health: pure liveness, no dependency checks.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyCheck is one dependency's result within a readiness response.
type readyCheck struct {
	// Name is the dependency label (e.g. "store", "qdrant").
	Name string `json:"name"`
	// OK is true when the dependency responded successfully.
	OK bool `json:"ok"`
	// Error carries the failure reason when OK is false.
	Error string `json:"error,omitempty"`
}

// readyResponse is the JSON body returned by GET /api/ready.
type readyResponse struct {
	// Ready is true only when every dependency probe succeeded.
	Ready bool `json:"ready"`
	// Checks holds the per-dependency results.
	Checks []readyCheck `json:"checks"`
}

// handleReady handles GET /api/ready: one bounded probe per registered
// dependency, 503 when any fails. Unlike /api/health it reflects actual
// dependency state, so orchestrators gate traffic on it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	resp := readyResponse{Ready: true, Checks: make([]readyCheck, 0, len(s.pingers))}
	for _, p := range s.pingers {
		check := probe(r.Context(), p)
		if !check.OK {
			resp.Ready = false
			log.Warn("readiness probe failed",
				slog.String("dependency", check.Name),
				slog.String("error", check.Error),
			)
		}
		resp.Checks = append(resp.Checks, check)
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// probe runs one dependency check under the probe timeout.
func probe(ctx context.Context, p Pinger) readyCheck {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return readyCheck{Name: p.Name(), Error: err.Error()}
	}
	return readyCheck{Name: p.Name(), OK: true}
}
