package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/conversation"
	"github.com/megalab/halo/internal/review"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry receives all Prometheus metrics and backs GET /metrics.
	// If nil a fresh registry is created; tests inject their own to stay hermetic.
	Registry *prometheus.Registry
	// Review holds the token budgets applied to review requests.
	// Zero values fall back to the standard limits.
	Review review.Config
}

// captureAgent is the interface handleCapture calls to run one exchange.
// *capture.Agent satisfies it; tests inject a fake.
type captureAgent interface {
	Respond(ctx context.Context, session, methodKey, message string, profile capture.Profile, emotions map[string]float64) (*capture.Exchange, error)
}

// historian is the interface the handlers use for session state.
// *store.Store satisfies it; tests inject a fake.
type historian interface {
	Turns(ctx context.Context, session string) ([]conversation.Turn, error)
	SaveReview(ctx context.Context, session string, res *review.Result) error
	LatestReview(ctx context.Context, session string) (*review.Result, error)
	PromptOverrides(ctx context.Context, session string) (map[string]string, error)
	SetPromptOverride(ctx context.Context, session, method, prompt string) error
	DeletePromptOverride(ctx context.Context, session, method string) error
}

// Server is the HTTP server that exposes the capture and review pipelines.
type Server struct {
	// agent runs capture exchanges.
	agent captureAgent
	// gen produces review analyses.
	gen review.Generator
	// hist persists and recalls session state.
	hist historian
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
	// metrics holds all Prometheus metrics owned by this server instance.
	metrics *serverMetrics
}

// reviewRequest is the JSON body for POST /api/review.
type reviewRequest struct {
	// Session optionally names a stored session to review. When Conversation
	// is empty the turns are loaded from this session.
	Session string `json:"sessionId,omitempty"`
	// Conversation is the transcript to review, newest turn last.
	Conversation []conversation.Turn `json:"conversation,omitempty"`
	// Settings carries the review feature flag and optional custom prompt.
	Settings review.Settings `json:"settings"`
}

// reviewResponse is the JSON body returned by POST /api/review.
type reviewResponse struct {
	Success bool           `json:"success"`
	Review  *review.Result `json:"review"`
}

// captureRequest is the JSON body for POST /api/capture.
type captureRequest struct {
	// Session identifies the capture session.
	Session string `json:"sessionId"`
	// Method is the capture method key ("1".."4").
	Method string `json:"methodKey"`
	// Message is the expert's message for this exchange.
	Message string `json:"message"`
	// Profile describes the expert; zero-value fields use template defaults.
	Profile capture.Profile `json:"profile"`
	// Emotions optionally attaches detected emotion intensities to the turn.
	Emotions map[string]float64 `json:"emotions,omitempty"`
}

// captureResponse is the JSON body returned by POST /api/capture.
type captureResponse struct {
	Success  bool              `json:"success"`
	Exchange *capture.Exchange `json:"exchange"`
}

// promptInfo describes one capture method's effective prompt for a session.
type promptInfo struct {
	// Key is the method key ("1".."4").
	Key string `json:"key"`
	// Name is the human-readable method name.
	Name string `json:"name"`
	// Overridden is true when the session has replaced the default prompt.
	Overridden bool `json:"overridden"`
	// Prompt is the effective template text.
	Prompt string `json:"prompt"`
}

// promptsResponse is the JSON body returned by GET /api/prompts.
type promptsResponse struct {
	Session string       `json:"sessionId"`
	Methods []promptInfo `json:"methods"`
}

// promptOverrideRequest is the JSON body for PUT /api/prompts/{key}.
type promptOverrideRequest struct {
	// Prompt is the replacement template text.
	Prompt string `json:"prompt"`
}

// errorResponse is the JSON error body shared by all handlers: a stable
// machine-readable code plus a human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
