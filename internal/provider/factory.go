package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cloudwego/eino/components/model"
)

// ConfigFromEnv builds a Config by reading provider settings from environment
// variables. MODEL_PROVIDER selects the backend; the remaining variables are
// shared across backends.
//
// Environment variables:
//
//	MODEL_PROVIDER    = ollama | openai | azure | ark | gemini (default: ollama)
//	MODEL_NAME        = model name or deployment ID (backend-specific default)
//	MODEL_BASE_URL    = API endpoint override (Azure endpoint, Ark gateway, Ollama host)
//	MODEL_API_KEY     = credential for the selected backend
//	AZURE_DEPLOYMENT  = Azure OpenAI deployment name (azure only)
//	AZURE_API_VERSION = Azure OpenAI API version (default: 2024-02-01)
//	MODEL_MAX_TOKENS  = default reply cap (default: 4096)
//	MODEL_TEMPERATURE = sampling temperature (default: 0.2)
func ConfigFromEnv() *Config {
	backend := Backend(getEnvOrDefault("MODEL_PROVIDER", string(BackendOllama)))

	return &Config{
		Backend:         backend,
		Model:           getEnvOrDefault("MODEL_NAME", defaultModel(backend)),
		BaseURL:         os.Getenv("MODEL_BASE_URL"),
		APIKey:          os.Getenv("MODEL_API_KEY"),
		AzureDeployment: os.Getenv("AZURE_DEPLOYMENT"),
		AzureAPIVersion: getEnvOrDefault("AZURE_API_VERSION", "2024-02-01"),
		MaxTokens:       getEnvInt("MODEL_MAX_TOKENS", 4096),
		Temperature:     getEnvFloat32("MODEL_TEMPERATURE", 0.2),
	}
}

// defaultModel returns the default model name for a backend.
// gpt-4o-mini is the review workhorse — cheap enough to run a 100k-token
// transcript analysis routinely.
func defaultModel(b Backend) string {
	switch b {
	case BackendOpenAI, BackendAzure:
		return "gpt-4o-mini"
	case BackendGemini:
		return "gemini-1.5-pro"
	default:
		return "llama3"
	}
}

// New constructs a chat model from an explicit Config, delegating to the
// appropriate backend constructor. The config is validated first so callers
// get a clear error at startup rather than on the first request.
func New(ctx context.Context, cfg *Config) (model.ToolCallingChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendOllama:
		return newOllama(ctx, cfg)
	case BackendOpenAI:
		return newOpenAI(ctx, cfg)
	case BackendAzure:
		return newAzure(ctx, cfg)
	case BackendArk:
		return newArk(ctx, cfg)
	case BackendGemini:
		return newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("provider: unknown backend %q", cfg.Backend)
	}
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat32 returns the float32 value of the named environment variable,
// or fallback if the variable is unset, empty, or not parseable.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
