package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleReady_NoPingers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Ready {
		t.Error("Ready = false with no pingers")
	}
}

func TestHandleReady_AllHealthy(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())
	s.pingers = []Pinger{
		NewPinger("store", func(context.Context) error { return nil }),
		NewPinger("qdrant", func(context.Context) error { return nil }),
	}

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Ready || len(resp.Checks) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleReady_FailingDependency(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())
	s.pingers = []Pinger{
		NewPinger("store", func(context.Context) error { return nil }),
		NewPinger("qdrant", func(context.Context) error { return errors.New("connection refused") }),
	}

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Ready {
		t.Error("Ready = true with a failing dependency")
	}
	var failed *readyCheck
	for i := range resp.Checks {
		if resp.Checks[i].Name == "qdrant" {
			failed = &resp.Checks[i]
		}
	}
	if failed == nil || failed.OK || !strings.Contains(failed.Error, "connection refused") {
		t.Errorf("qdrant check = %+v", failed)
	}
}

func TestMultiPinger_CollectsAllFailures(t *testing.T) {
	t.Parallel()

	m := NewMultiPinger(
		NewPinger("a", func(context.Context) error { return nil }),
		NewPinger("b", func(context.Context) error { return errors.New("down") }),
		NewPinger("c", func(context.Context) error { return errors.New("also down") }),
	)

	err := m.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"b: down", "c: also down"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %v, missing %q", err, want)
		}
	}
}

func TestMultiPinger_AllHealthy(t *testing.T) {
	t.Parallel()

	m := NewMultiPinger(
		NewPinger("a", func(context.Context) error { return nil }),
		NewPinger("b", func(context.Context) error { return nil }),
	)

	if err := m.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestLLMPinger(t *testing.T) {
	t.Parallel()

	gen := &fakeGenCap{}
	p := NewLLMPinger(gen, "ollama")
	if p.Name() != "ollama" {
		t.Errorf("Name = %q", p.Name())
	}
	if err := p.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if gen.cap != 1 {
		t.Errorf("probe requested %d reply tokens, want 1", gen.cap)
	}

	gen.err = errors.New("model offline")
	if err := p.Ping(context.Background()); err == nil {
		t.Error("expected error from failing backend")
	}
}

// fakeGenCap records the reply cap it was asked for.
type fakeGenCap struct {
	cap int
	err error
}

func (f *fakeGenCap) Generate(_ context.Context, _ string, maxReplyTokens int) (string, error) {
	f.cap = maxReplyTokens
	return "pong", f.err
}
