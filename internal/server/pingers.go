package server

import (
	"context"
	"fmt"

	"github.com/megalab/halo/internal/capture"
)

// contextPinger adapts any dependency exposing Ping(ctx) error — the session
// store and the Qdrant story store both do — into a named Pinger for
// GET /api/ready.
type contextPinger struct {
	// ping is the dependency's own reachability check.
	ping func(ctx context.Context) error
	// name identifies the dependency in readiness responses.
	name string
}

// NewPinger wraps a Ping function under the given dependency name.
func NewPinger(name string, ping func(ctx context.Context) error) Pinger {
	return &contextPinger{ping: ping, name: name}
}

// Name returns the dependency label used in readiness responses.
func (p *contextPinger) Name() string { return p.name }

// Ping delegates to the wrapped reachability check.
func (p *contextPinger) Ping(ctx context.Context) error {
	if err := p.ping(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// LLMPinger probes the chat model backend by sending a minimal single-token
// generate request. Each probe consumes a token, so /api/ready should not be
// polled aggressively when the backend is metered.
type LLMPinger struct {
	// gen is the generator to probe.
	gen capture.Generator
	// name identifies the backend in readiness responses (e.g. "ollama").
	name string
}

// NewLLMPinger constructs an LLMPinger for the given generator and backend name.
func NewLLMPinger(gen capture.Generator, name string) *LLMPinger {
	return &LLMPinger{gen: gen, name: name}
}

// Name returns the backend label used in readiness responses.
func (p *LLMPinger) Name() string { return p.name }

// Ping sends a single-token generate request to the backend.
func (p *LLMPinger) Ping(ctx context.Context) error {
	if _, err := p.gen.Generate(ctx, "ping", 1); err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	return nil
}
