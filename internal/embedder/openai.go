// Package embedder converts story text into dense vectors for the semantic
// story memory. Each embedder speaks plain HTTP to its backend (OpenAI,
// Azure OpenAI, or Ollama); no SDK is pulled in for what is a single
// POST-and-decode per backend.
package embedder

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// hostedTimeout bounds one embeddings API call to OpenAI or Azure.
const hostedTimeout = 30 * time.Second

// OpenAIEmbedder embeds story text through the OpenAI embeddings REST API,
// or its Azure OpenAI variant. Safe for concurrent use.
type OpenAIEmbedder struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	azure      bool
	apiVersion string
	client     *http.Client
}

// OpenAIConfig holds the settings for constructing an OpenAIEmbedder.
type OpenAIConfig struct {
	// BaseURL is the API base URL. For OpenAI: "https://api.openai.com/v1".
	// For Azure: "https://<resource>.openai.azure.com/openai".
	BaseURL string
	// APIKey is the authentication key.
	APIKey string
	// Model is the embedding model name (e.g. "text-embedding-3-small").
	// Under Azure this doubles as the deployment name.
	Model string
	// Dimensions is the desired vector length (0 = model default).
	Dimensions int
	// Azure enables Azure OpenAI mode (api-key header + api-version param).
	Azure bool
	// APIVersion is the Azure OpenAI API version (e.g. "2025-04-01-preview").
	// Ignored when Azure is false.
	APIVersion string
}

// NewOpenAIEmbedder constructs an OpenAIEmbedder from the given config.
func NewOpenAIEmbedder(cfg *OpenAIConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		azure:      cfg.Azure,
		apiVersion: cfg.APIVersion,
		client:     &http.Client{Timeout: hostedTimeout},
	}
}

// endpoint returns the embeddings URL. Azure routes through a per-deployment
// path and pins the API version in the query string.
func (e *OpenAIEmbedder) endpoint() string {
	if e.azure {
		return e.baseURL + "/deployments/" + e.model + "/embeddings?api-version=" + e.apiVersion
	}
	return e.baseURL + "/embeddings"
}

// authorize attaches the backend's credential header: a Bearer token for
// OpenAI, the api-key header for Azure.
func (e *OpenAIEmbedder) authorize(req *http.Request) {
	if e.azure {
		req.Header.Set("api-key", e.apiKey)
		return
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
}

// openaiEmbedRequest is the embeddings request body.
type openaiEmbedRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

// openaiEmbedResponse is the embeddings response body. Each datum carries the
// index of the input it belongs to; order is not guaranteed.
type openaiEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns one vector per input text, in input order. Responses are
// re-sorted by their declared index before returning.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	in := openaiEmbedRequest{Input: texts, Model: e.model}
	if e.dimensions > 0 {
		in.Dimensions = e.dimensions
	}

	var out openaiEmbedResponse
	status, err := postEmbed(ctx, e.client, e.endpoint(), e.authorize, in, &out)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	if !httpOK(status) {
		if out.Error != nil {
			return nil, fmt.Errorf("embedder: openai: %s", out.Error.Message)
		}
		return nil, fmt.Errorf("embedder: openai: HTTP %d", status)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("embedder: openai returned %d embeddings for %d inputs", len(out.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedder: openai embedding index %d outside batch of %d", d.Index, len(texts))
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
