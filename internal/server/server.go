// Package server implements the HTTP server that exposes the capture and
// review pipelines via a REST API. The server is started by the `halo serve`
// CLI command.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/review"
)

// New constructs a Server from the provided collaborators and config.
func New(agent captureAgent, gen review.Generator, hist historian, cfg *Config) (*Server, error) {
	if agent == nil {
		return nil, fmt.Errorf("server: capture agent must not be nil")
	}
	if gen == nil {
		return nil, fmt.Errorf("server: review generator must not be nil")
	}
	if hist == nil {
		return nil, fmt.Errorf("server: historian must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must cover a full model round-trip.
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		agent:   agent,
		gen:     gen,
		hist:    hist,
		cfg:     cfg,
		log:     cfg.Logger,
		pingers: cfg.Pingers,
		metrics: newServerMetrics(cfg.Registry),
	}

	if cfg.APIKey == "" {
		s.log.Warn("server: HALO_API_KEY not set — API authentication is disabled")
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, s.log)
	s.stopRL = stopRL

	// Model-backed and store-backed routes sit behind auth + rate limiting.
	api := http.NewServeMux()
	s.route(api, "POST /api/review", s.handleReview)
	s.route(api, "GET /api/review", s.handleReviewLatest)
	s.route(api, "POST /api/capture", s.handleCapture)
	s.route(api, "GET /api/prompts", s.handlePromptsList)
	s.route(api, "PUT /api/prompts/{key}", s.handlePromptPut)
	s.route(api, "DELETE /api/prompts/{key}", s.handlePromptDelete)
	protected := authMiddleware(cfg.APIKey, rl.middleware(api))

	// Probes and metrics stay open so orchestrators can scrape them.
	mux := http.NewServeMux()
	mux.Handle("/api/", protected)
	s.route(mux, "GET /api/health", s.handleHealth)
	s.route(mux, "GET /api/ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(s.log, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// route registers handler on mux under pattern, instrumented with the
// per-route HTTP metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.Handle(pattern, s.metrics.instrument(pattern, handler))
}

// Handler returns the server's root handler, for tests that drive it through
// httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	defer s.stopRL()

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("halo server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body with the given status code. The error
// code is derived from the status; msg carries the human-readable detail.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: errorCode(status), Message: msg})
}

// errorCode maps an HTTP status to the machine-readable code used in error
// bodies. Codes are part of the API contract; messages are not.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}
