package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator adapts an eino chat model to the single-call text-generation
// contract the review and capture pipelines consume: a prompt and a reply
// cap in, the reply text out. No streaming, no tools, no retries — failure
// handling belongs to the caller.
type Generator struct {
	// model is the underlying chat model constructed by the factory.
	model model.ToolCallingChatModel
}

// NewGenerator wraps a chat model in a Generator.
func NewGenerator(m model.ToolCallingChatModel) *Generator {
	return &Generator{model: m}
}

// Generate sends prompt as a single user message and returns the model's
// reply verbatim. maxReplyTokens caps the reply length when positive.
// The one in-flight request is aborted when ctx is cancelled.
func (g *Generator) Generate(ctx context.Context, prompt string, maxReplyTokens int) (string, error) {
	var opts []model.Option
	if maxReplyTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxReplyTokens))
	}

	resp, err := g.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", fmt.Errorf("provider: generate failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("provider: generate returned nil response")
	}
	return resp.Content, nil
}
