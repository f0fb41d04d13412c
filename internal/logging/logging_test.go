package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewAt_JSONDefault(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	log := NewAt(&buf)
	log.Info("session opened", slog.String("session", "s-1"))

	out := buf.String()
	if !strings.Contains(out, `"msg":"session opened"`) {
		t.Errorf("output is not JSON: %s", out)
	}
	if !strings.Contains(out, `"session":"s-1"`) {
		t.Errorf("attribute missing: %s", out)
	}
}

func TestNewAt_TextFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	NewAt(&buf).Info("session opened")

	out := buf.String()
	if strings.Contains(out, `"msg"`) {
		t.Errorf("expected text output, got JSON: %s", out)
	}
	if !strings.Contains(out, "msg=") {
		t.Errorf("expected logfmt output: %s", out)
	}
}

func TestNewAt_LevelSuppresses(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	log := NewAt(&buf)
	log.Info("dropped")
	log.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record emitted at error level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("error record missing: %s", out)
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), log)
	if got := FromContext(ctx); got != log {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext returned nil for an empty context")
	}
}
