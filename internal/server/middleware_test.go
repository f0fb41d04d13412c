package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/megalab/halo/internal/logging"
)

// TestRequestLogger_CompletionLog verifies the single completion log line
// carries the method, path, status, and body size of the request.
func TestRequestLogger_CompletionLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := requestLogger(base, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/capture", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{
		`"path":"/api/capture"`,
		`"method":"POST"`,
		`"status":201`,
		`"bytes":5`,
		`"request_id":`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("completion log missing %s: %s", want, line)
		}
	}
}

// TestRequestLogger_SessionAttribute verifies that the session query
// parameter, when present, is attached to the request-scoped logger.
func TestRequestLogger_SessionAttribute(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := requestLogger(base, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/prompts?session=sess-42", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"session":"sess-42"`) {
		t.Errorf("expected session attribute on request logs, got: %s", buf.String())
	}

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/api/prompts", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(buf.String(), `"session"`) {
		t.Errorf("no session param, but session attribute logged: %s", buf.String())
	}
}
