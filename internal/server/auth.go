package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/megalab/halo/internal/logging"
)

// authMiddleware guards the capture and review API with a static Bearer
// token. An empty apiKey disables authentication entirely — the expected
// mode for a localhost deployment; New logs a startup warning in that case
// so the choice is visible.
//
// Rejected requests get a 401 with the API's JSON error body and a
// WWW-Authenticate challenge. The presented token value is never logged.
func authMiddleware(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		switch token := bearerToken(r); {
		case token == "":
			log.Warn("auth: no bearer token presented", slog.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Bearer realm="halo"`)
			writeError(w, http.StatusUnauthorized, "bearer token required")

		case token != apiKey:
			log.Warn("auth: bearer token rejected", slog.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Bearer realm="halo" error="invalid_token"`)
			writeError(w, http.StatusUnauthorized, "invalid bearer token")

		default:
			next.ServeHTTP(w, r)
		}
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme match is case-insensitive and surrounding whitespace is
// trimmed; absent or non-Bearer headers yield "".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
