// Package logging builds the process-wide structured logger on [log/slog]
// and moves it through call chains as a context value, so request-scoped
// loggers (request ID, session) reach the capture and review pipelines
// without threading a logger parameter everywhere.
//
// Environment variables:
//
//	LOG_LEVEL  = debug | info | warn | error  (default: info)
//	LOG_FORMAT = json | text                  (default: json)
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// contextKey is the unexported context key carrying the logger.
type contextKey struct{}

// New constructs the logger from LOG_LEVEL and LOG_FORMAT, writing to stderr.
func New() *slog.Logger {
	return NewAt(os.Stderr)
}

// NewAt is New with an explicit destination, for tests that assert on
// emitted records.
func NewAt(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		// JSON is the default so log aggregators need no configuration.
		return slog.New(slog.NewJSONHandler(w, opts))
	}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the [*slog.Logger] stored in ctx, falling back to
// [slog.Default] so callers never nil-check.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// parseLevel converts a level name to a [slog.Level], defaulting to Info on
// anything unrecognised. slog's own parser handles the canonical names and
// offsets ("warn+2"); "warning" is accepted as an alias.
func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
