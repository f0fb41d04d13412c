package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/conversation"
	"github.com/megalab/halo/internal/review"
	"github.com/megalab/halo/internal/store"
)

// ---------------------------------------------------------------------------
// Shared fakes for handler tests
// ---------------------------------------------------------------------------

// fakeAgent implements captureAgent and records the arguments it was called with.
type fakeAgent struct {
	ex      *capture.Exchange
	err     error
	session string
	method  string
	message string
}

func (f *fakeAgent) Respond(_ context.Context, session, methodKey, message string, _ capture.Profile, _ map[string]float64) (*capture.Exchange, error) {
	f.session = session
	f.method = methodKey
	f.message = message
	if f.err != nil {
		return nil, f.err
	}
	if f.ex != nil {
		return f.ex, nil
	}
	return &capture.Exchange{Method: methodKey, Reply: "go on"}, nil
}

// fakeReviewGen implements review.Generator with a canned reply.
type fakeReviewGen struct {
	reply string
	err   error
	calls int
}

func (f *fakeReviewGen) Generate(_ context.Context, _ string, _ int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "a thorough analysis", nil
	}
	return f.reply, nil
}

// fakeHistorian implements historian with in-memory state.
type fakeHistorian struct {
	turns     map[string][]conversation.Turn
	overrides map[string]map[string]string
	reviews   map[string][]*review.Result
	turnsErr  error
}

func newFakeHistorian() *fakeHistorian {
	return &fakeHistorian{
		turns:     make(map[string][]conversation.Turn),
		overrides: make(map[string]map[string]string),
		reviews:   make(map[string][]*review.Result),
	}
}

func (f *fakeHistorian) Turns(_ context.Context, session string) ([]conversation.Turn, error) {
	if f.turnsErr != nil {
		return nil, f.turnsErr
	}
	return f.turns[session], nil
}

func (f *fakeHistorian) SaveReview(_ context.Context, session string, res *review.Result) error {
	f.reviews[session] = append(f.reviews[session], res)
	return nil
}

func (f *fakeHistorian) LatestReview(_ context.Context, session string) (*review.Result, error) {
	stored := f.reviews[session]
	if len(stored) == 0 {
		return nil, store.ErrNotFound
	}
	return stored[len(stored)-1], nil
}

func (f *fakeHistorian) PromptOverrides(_ context.Context, session string) (map[string]string, error) {
	if o, ok := f.overrides[session]; ok {
		return o, nil
	}
	return map[string]string{}, nil
}

func (f *fakeHistorian) SetPromptOverride(_ context.Context, session, method, prompt string) error {
	if f.overrides[session] == nil {
		f.overrides[session] = make(map[string]string)
	}
	f.overrides[session][method] = prompt
	return nil
}

func (f *fakeHistorian) DeletePromptOverride(_ context.Context, session, method string) error {
	delete(f.overrides[session], method)
	return nil
}

// newTestServer builds a *Server wired with fakes and a fresh isolated
// metrics registry so tests never pollute prometheus.DefaultRegisterer.
func newTestServer(t *testing.T, agent captureAgent, gen review.Generator, hist historian) *Server {
	t.Helper()
	return &Server{
		agent:   agent,
		gen:     gen,
		hist:    hist,
		cfg:     &Config{},
		log:     slog.Default(),
		metrics: newServerMetrics(prometheus.NewRegistry()),
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeReviewGen{}, newFakeHistorian(), nil); err == nil {
		t.Error("expected error for nil agent")
	}
	if _, err := New(&fakeAgent{}, nil, newFakeHistorian(), nil); err == nil {
		t.Error("expected error for nil generator")
	}
	if _, err := New(&fakeAgent{}, &fakeReviewGen{}, nil, nil); err == nil {
		t.Error("expected error for nil historian")
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	s, err := New(&fakeAgent{}, &fakeReviewGen{}, newFakeHistorian(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.stopRL)

	if s.httpServer.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want default 127.0.0.1:8080", s.httpServer.Addr)
	}
	if s.Handler() == nil {
		t.Error("Handler is nil")
	}
}
