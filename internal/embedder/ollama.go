package embedder

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// localTimeout bounds one Ollama embedding call. A local server gets more
// headroom than the hosted APIs because a cold model load can take a while.
const localTimeout = 60 * time.Second

// OllamaEmbedder embeds story text through a local Ollama server's
// /api/embed endpoint. No API key is involved. Safe for concurrent use.
type OllamaEmbedder struct {
	host   string
	model  string
	client *http.Client
}

// OllamaConfig holds the settings for constructing an OllamaEmbedder.
type OllamaConfig struct {
	// Host is the Ollama server base URL (e.g. "http://localhost:11434").
	Host string
	// Model is the embedding model name (e.g. "nomic-embed-text").
	Model string
}

// NewOllamaEmbedder constructs an OllamaEmbedder from the given config.
func NewOllamaEmbedder(cfg *OllamaConfig) *OllamaEmbedder {
	return &OllamaEmbedder{
		host:   cfg.Host,
		model:  cfg.Model,
		client: &http.Client{Timeout: localTimeout},
	}
}

// ollamaEmbedRequest is the /api/embed request body. Input is batched so one
// call can cover every story chunk being indexed.
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaEmbedResponse is the /api/embed response body. On failure Ollama
// returns an error message in place of the embeddings.
type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// Embed returns one vector per input text, in input order.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out ollamaEmbedResponse
	status, err := postEmbed(ctx, e.client, e.host+"/api/embed", nil,
		ollamaEmbedRequest{Model: e.model, Input: texts}, &out)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	if !httpOK(status) {
		if out.Error != "" {
			return nil, fmt.Errorf("embedder: ollama: %s", out.Error)
		}
		return nil, fmt.Errorf("embedder: ollama: HTTP %d", status)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder: ollama returned %d embeddings for %d inputs", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}
