// Package capture implements the Spark capture agents. Each exchange takes an
// expert's message for one of the four capture methods, builds the method
// prompt from the session's override table and defaults, folds in bounded chat
// history and retrieved stories, calls the chat model, and persists the
// exchange.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/megalab/halo/internal/budget"
	"github.com/megalab/halo/internal/conversation"
	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/memory"
	"github.com/megalab/halo/internal/prompts"
)

var (
	// ErrEmptyMessage is returned when the expert's message is blank.
	ErrEmptyMessage = errors.New("capture: message must not be empty")

	// ErrCollaborator is returned when the chat model call fails.
	ErrCollaborator = errors.New("capture: model call failed")
)

// Generator produces a model reply for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxReplyTokens int) (string, error)
}

// Historian persists and recalls session state. *store.Store satisfies it.
type Historian interface {
	AppendTurn(ctx context.Context, session string, t conversation.Turn) error
	Turns(ctx context.Context, session string) ([]conversation.Turn, error)
	PromptOverrides(ctx context.Context, session string) (map[string]string, error)
}

// StoryMemory retrieves and saves expert stories. *memory.Memory satisfies it.
type StoryMemory interface {
	Save(ctx context.Context, story memory.Story) error
	Retrieve(ctx context.Context, session, query string, topK int) ([]memory.Story, error)
}

// Profile describes the expert whose knowledge is being captured. Zero-value
// fields fall back to the template defaults during substitution.
type Profile struct {
	// Name is the expert's display name.
	Name string `json:"name"`
	// Domain is the expert's field (e.g. "Site reliability engineering").
	Domain string `json:"domain"`
	// History is a short summary of the expert's background.
	History string `json:"history"`
}

// Config holds the tunable limits for a capture exchange.
// Zero values fall back to defaults.
type Config struct {
	// TotalBudgetTokens is the overall prompt budget for one exchange.
	TotalBudgetTokens int
	// ReservedReplyTokens is the headroom held back for the model's reply.
	ReservedReplyTokens int
	// MaxReplyTokens caps the generated reply length.
	MaxReplyTokens int
	// StoryTopK is the number of stories retrieved per exchange.
	StoryTopK int
}

// withDefaults fills zero-value fields with the standard limits.
func (c Config) withDefaults() Config {
	if c.TotalBudgetTokens <= 0 {
		c.TotalBudgetTokens = budget.DefaultTotalBudgetTokens
	}
	if c.ReservedReplyTokens <= 0 {
		c.ReservedReplyTokens = budget.DefaultReservedReplyTokens
	}
	if c.MaxReplyTokens <= 0 {
		c.MaxReplyTokens = 1024
	}
	if c.StoryTopK <= 0 {
		c.StoryTopK = 5
	}
	return c
}

// Exchange is the outcome of one capture turn.
type Exchange struct {
	// Method is the capture method key that was used.
	Method string `json:"method"`
	// Reply is the agent's response to the expert.
	Reply string `json:"reply"`
	// StoriesUsed is the number of retrieved stories folded into the prompt.
	StoriesUsed int `json:"storiesUsed"`
	// HistoryTruncated reports whether earlier turns were dropped to fit the budget.
	HistoryTruncated bool `json:"historyTruncated"`
	// PromptTokens is the estimated token count of the assembled prompt.
	PromptTokens int `json:"promptTokens"`
}

// Agent runs capture exchanges for a single deployment. It is safe for
// concurrent use across sessions.
type Agent struct {
	gen  Generator
	hist Historian
	mem  StoryMemory // nil when story memory is not configured
	cfg  Config
}

// NewAgent constructs an Agent. mem may be nil, in which case story retrieval
// is skipped and the story placeholders fall back to empty strings.
func NewAgent(gen Generator, hist Historian, mem StoryMemory, cfg Config) (*Agent, error) {
	if gen == nil {
		return nil, fmt.Errorf("capture: generator must not be nil")
	}
	if hist == nil {
		return nil, fmt.Errorf("capture: historian must not be nil")
	}
	return &Agent{gen: gen, hist: hist, mem: mem, cfg: cfg.withDefaults()}, nil
}

// Respond runs one capture exchange: it resolves the method prompt, folds in
// as much recent chat history as the budget allows plus retrieved stories,
// calls the model, and persists both sides of the exchange.
//
// emotions may be nil; when present it is stored with the expert's turn and
// surfaces later in the HALO review.
func (a *Agent) Respond(ctx context.Context, session, methodKey, message string, profile Profile, emotions map[string]float64) (*Exchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	overrides, err := a.hist.PromptOverrides(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("capture: load prompt overrides: %w", err)
	}
	template, err := prompts.Resolve(methodKey, overrides)
	if err != nil {
		return nil, err
	}

	history, err := a.hist.Turns(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("capture: load history: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	userTurn := conversation.Turn{
		Role:      conversation.RoleUser,
		Content:   message,
		Timestamp: now,
		Emotions:  emotions,
	}

	vars := map[string]string{
		"user_name":    profile.Name,
		"user_domain":  profile.Domain,
		"user_history": profile.History,
	}

	stories := a.retrieveStories(ctx, session, methodKey, message)
	vars["retrieved_stories"] = memory.FormatStories(stories)
	vars["retrieved_data"] = vars["retrieved_stories"]

	// The template's own text counts against the budget; the chat history
	// gets whatever is left after the reply reserve.
	overhead := budget.Estimate(template) + budget.Estimate(message)
	transcript := conversation.Select(append(history, userTurn),
		overhead, a.cfg.TotalBudgetTokens, a.cfg.ReservedReplyTokens)
	vars["chat_history"] = transcript.RenderedText

	prompt := prompts.Substitute(template, vars)

	reply, err := a.gen.Generate(ctx, prompt, a.cfg.MaxReplyTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}

	if err := a.hist.AppendTurn(ctx, session, userTurn); err != nil {
		return nil, fmt.Errorf("capture: persist user turn: %w", err)
	}
	assistantTurn := conversation.Turn{
		Role:      conversation.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.hist.AppendTurn(ctx, session, assistantTurn); err != nil {
		return nil, fmt.Errorf("capture: persist assistant turn: %w", err)
	}

	a.saveStory(ctx, session, methodKey, message)

	return &Exchange{
		Method:           methodKey,
		Reply:            reply,
		StoriesUsed:      len(stories),
		HistoryTruncated: transcript.Truncated(),
		PromptTokens:     budget.Estimate(prompt),
	}, nil
}

// retrieveStories queries story memory for the methods that build on earlier
// narratives. Method 1 collects fresh stories, so it retrieves nothing.
func (a *Agent) retrieveStories(ctx context.Context, session, methodKey, message string) []memory.Story {
	if a.mem == nil || methodKey == prompts.MethodNarrative {
		return nil
	}
	stories, err := a.mem.Retrieve(ctx, session, message, a.cfg.StoryTopK)
	if err != nil {
		// Retrieval failure is non-fatal — continue without stories.
		logging.FromContext(ctx).Warn("capture: story retrieval failed, continuing without stories",
			slog.Any("error", err))
		return nil
	}
	return stories
}

// saveStory records the expert's narrative in story memory so later methods
// can build on it. Only method 1 produces stories.
func (a *Agent) saveStory(ctx context.Context, session, methodKey, message string) {
	if a.mem == nil || methodKey != prompts.MethodNarrative {
		return
	}
	err := a.mem.Save(ctx, memory.Story{
		Session: session,
		Method:  methodKey,
		Content: message,
	})
	if err != nil {
		// The exchange already succeeded; losing the story is recoverable.
		logging.FromContext(ctx).Warn("capture: failed to save story",
			slog.Any("error", err))
	}
}
