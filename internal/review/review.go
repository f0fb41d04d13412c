// Package review implements the holistic post-hoc HALO review of a capture
// conversation: it assembles a budget-bounded transcript into an analysis
// prompt, makes exactly one call to the text-generation collaborator, and
// wraps the reply with computed metadata.
//
// The pipeline is a pure function of its inputs plus the one external call.
// Nothing is persisted or cached here; the caller owns storage and retries.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/megalab/halo/internal/budget"
	"github.com/megalab/halo/internal/conversation"
)

// Failure taxonomy. The first two are caller-input validation errors mapped
// to 400-class responses at the HTTP boundary; ErrCollaborator covers the
// external call and maps to a 500-class response.
var (
	// ErrReviewDisabled is returned when the review feature flag is off.
	ErrReviewDisabled = errors.New("review: disabled in settings")

	// ErrEmptyConversation is returned when no turns were supplied.
	ErrEmptyConversation = errors.New("review: empty conversation")

	// ErrCollaborator wraps a failed or timed-out text-generation call.
	ErrCollaborator = errors.New("review: collaborator call failed")
)

// Generator is the single-call text-generation collaborator the pipeline
// consumes. *provider.Generator satisfies it; tests inject a fake.
type Generator interface {
	// Generate returns the reply text for prompt, capped at maxReplyTokens.
	Generate(ctx context.Context, prompt string, maxReplyTokens int) (string, error)
}

// Settings is the caller-supplied review configuration.
type Settings struct {
	// Enabled gates the feature; a disabled review is a validation error,
	// never a silent no-op.
	Enabled bool `json:"enabled"`

	// CustomPrompt replaces the built-in analysis prompt when non-empty.
	CustomPrompt string `json:"customPrompt,omitempty"`
}

// Config holds the token budgets for transcript selection. Zero values take
// the package defaults from the budget package.
type Config struct {
	// TotalBudgetTokens is the full input context budget.
	TotalBudgetTokens int

	// ReservedReplyTokens is held back from the budget for the model's reply.
	ReservedReplyTokens int

	// MaxReplyTokens is the reply cap passed to the collaborator.
	MaxReplyTokens int
}

// withDefaults fills zero fields from the budget package constants.
func (c Config) withDefaults() Config {
	if c.TotalBudgetTokens == 0 {
		c.TotalBudgetTokens = budget.DefaultTotalBudgetTokens
	}
	if c.ReservedReplyTokens == 0 {
		c.ReservedReplyTokens = budget.DefaultReservedReplyTokens
	}
	if c.MaxReplyTokens == 0 {
		c.MaxReplyTokens = budget.DefaultMaxReplyTokens
	}
	return c
}

// RequestPayload is the assembled request for the collaborator, carrying the
// transcript selection alongside so the result builder can derive metadata
// without re-running the selection.
type RequestPayload struct {
	// Prompt is the complete request text: analysis prompt, preamble,
	// bounded transcript, and closing instruction.
	Prompt string

	// MaxReplyTokens is the reply cap to request from the collaborator.
	MaxReplyTokens int

	// Transcript is the window selection the prompt embeds.
	Transcript conversation.Transcript

	// customPrompt records whether a caller prompt replaced the default.
	customPrompt bool
}

// Result is the completed review returned to the caller. Its shape mirrors
// the public API response: the analysis text verbatim plus derived metadata,
// never the prompt text itself.
type Result struct {
	// Timestamp is the RFC 3339 completion time.
	Timestamp string `json:"timestamp"`

	// ConversationLength is the turn count of the original conversation.
	ConversationLength int `json:"conversationLength"`

	// Analysis is the collaborator's reply, untouched.
	Analysis string `json:"analysis"`

	// Settings echoes the review settings; CustomPrompt is a boolean so the
	// prompt text never leaks into responses.
	Settings ResultSettings `json:"settings"`

	// Metadata carries the computed conversation statistics.
	Metadata Metadata `json:"metadata"`
}

// ResultSettings echoes the effective settings of a completed review.
type ResultSettings struct {
	// Enabled is always true on a successful result.
	Enabled bool `json:"enabled"`

	// CustomPrompt reports whether a caller-supplied prompt was used.
	CustomPrompt bool `json:"customPrompt"`
}

// Metadata holds the statistics computed over the reviewed conversation.
type Metadata struct {
	// TotalMessages is the original conversation length.
	TotalMessages int `json:"totalMessages"`

	// UserMessages counts the user turns.
	UserMessages int `json:"userMessages"`

	// AssistantMessages counts the assistant turns.
	AssistantMessages int `json:"assistantMessages"`

	// EmotionsDetected reports whether any turn carried emotion data.
	EmotionsDetected bool `json:"emotionsDetected"`

	// EstimatedTokens is the estimated size of the assembled request text.
	EstimatedTokens int `json:"estimatedTokens"`

	// Truncated reports whether earlier turns were dropped to fit the budget.
	Truncated bool `json:"truncated"`
}

// Assemble validates the inputs and builds the collaborator request: it
// resolves the analysis prompt (custom over default), charges its estimated
// size as fixed overhead, selects the transcript window, and concatenates
// prompt, preamble, transcript, and closing instruction.
func Assemble(turns []conversation.Turn, settings Settings, cfg Config) (*RequestPayload, error) {
	if !settings.Enabled {
		return nil, ErrReviewDisabled
	}
	if len(turns) == 0 {
		return nil, ErrEmptyConversation
	}
	cfg = cfg.withDefaults()

	prompt := settings.CustomPrompt
	custom := prompt != ""
	if !custom {
		prompt = defaultAnalysisPrompt
	}

	overhead := budget.Estimate(prompt)
	transcript := conversation.Select(turns, overhead, cfg.TotalBudgetTokens, cfg.ReservedReplyTokens)

	return &RequestPayload{
		Prompt:         prompt + transcriptPreamble + transcript.RenderedText + closingInstruction,
		MaxReplyTokens: cfg.MaxReplyTokens,
		Transcript:     transcript,
		customPrompt:   custom,
	}, nil
}

// Run executes the full pipeline: assemble, one collaborator call, result.
// The collaborator call is bounded by ctx; on failure the error wraps
// ErrCollaborator and no partial result is returned.
func Run(ctx context.Context, gen Generator, turns []conversation.Turn, settings Settings, cfg Config) (*Result, error) {
	payload, err := Assemble(turns, settings, cfg)
	if err != nil {
		return nil, err
	}

	reply, err := gen.Generate(ctx, payload.Prompt, payload.MaxReplyTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}

	return buildResult(reply, turns, payload), nil
}

// buildResult wraps the collaborator's reply with the metadata computed from
// the original conversation and the transcript selection.
func buildResult(reply string, turns []conversation.Turn, payload *RequestPayload) *Result {
	userCount, assistantCount := conversation.Counts(turns)

	return &Result{
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		ConversationLength: len(turns),
		Analysis:           reply,
		Settings: ResultSettings{
			Enabled:      true,
			CustomPrompt: payload.customPrompt,
		},
		Metadata: Metadata{
			TotalMessages:     len(turns),
			UserMessages:      userCount,
			AssistantMessages: assistantCount,
			EmotionsDetected:  conversation.AnyEmotions(turns),
			EstimatedTokens:   budget.Estimate(payload.Prompt),
			Truncated:         payload.Transcript.Truncated(),
		},
	}
}
