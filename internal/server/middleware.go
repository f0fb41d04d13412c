package server

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/megalab/halo/internal/logging"
)

// requestLogger tags every inbound request with a random request_id, injects
// a child logger carrying it into the request context, and logs one line on
// completion. Prompt and review lookups identify their session via the
// `session` query parameter; when present it is carried on the logger so a
// session's requests can be grepped by ID. Capture and review POST bodies
// carry sessionId in JSON instead — those handlers log it themselves.
func requestLogger(base *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := base.With(slog.String("request_id", rand.Text()))
		if session := r.URL.Query().Get("session"); session != "" {
			log = log.With(slog.String("session", session))
		}
		r = r.WithContext(logging.WithLogger(r.Context(), log))

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rw, r)

		log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Int("bytes", rw.bytes),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// responseWriter wraps [http.ResponseWriter] to record the status code and
// body size a handler produced, for the request log and per-route metrics.
type responseWriter struct {
	http.ResponseWriter
	// status is the HTTP status code sent to the client.
	status int
	// bytes counts the response body bytes written.
	bytes int
}

// WriteHeader records the status code before delegating.
func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write accumulates the body size before delegating.
func (rw *responseWriter) Write(p []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}
