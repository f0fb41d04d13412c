package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// postEmbed sends in as a JSON POST to url and decodes the response body into
// out, returning the HTTP status code. Transport failures and undecodable
// bodies are errors; a non-2xx status is not — each backend reports failures
// in its own response payload, so callers map those themselves.
func postEmbed(ctx context.Context, client *http.Client, url string, auth func(*http.Request), in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("embedder: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("embedder: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		auth(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("embedder: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("embedder: decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func httpOK(status int) bool {
	return status >= 200 && status < 300
}
