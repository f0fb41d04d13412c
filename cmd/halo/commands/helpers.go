package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/megalab/halo/internal/embedder"
	"github.com/megalab/halo/internal/memory"
	"github.com/megalab/halo/internal/review"
	"github.com/megalab/halo/internal/store"
)

// envInt reads an integer environment variable, returning fallback when the
// variable is unset or malformed.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envFloat reads a float environment variable, returning fallback when the
// variable is unset or malformed.
func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// reviewConfigFromEnv builds the review token budgets from REVIEW_* env
// vars. Zero values fall through to the package defaults.
func reviewConfigFromEnv() review.Config {
	return review.Config{
		TotalBudgetTokens:   envInt("REVIEW_TOTAL_BUDGET_TOKENS", 0),
		ReservedReplyTokens: envInt("REVIEW_RESERVED_REPLY_TOKENS", 0),
		MaxReplyTokens:      envInt("REVIEW_MAX_REPLY_TOKENS", 0),
	}
}

// openHistoryStore opens the SQLite session store. HALO_HISTORY_DB overrides
// the default path (~/.halo/sessions.db); "disabled" turns history off
// entirely. A nil return with nil error means history is disabled.
func openHistoryStore(log *slog.Logger) (*store.Store, error) {
	dbPath := os.Getenv("HALO_HISTORY_DB")
	if dbPath == "disabled" {
		log.Info("history: disabled via HALO_HISTORY_DB=disabled")
		return nil, nil
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("history: resolving default DB path: %w", err)
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: opening store: %w", err)
	}
	log.Info("history: store opened", slog.String("path", dbPath))
	return st, nil
}

// buildMemory constructs the Qdrant-backed story memory when QDRANT_HOST is
// set. Returns (nil, noop, nil) when no Qdrant instance is configured —
// capture then runs without cross-method story retrieval.
func buildMemory(ctx context.Context, log *slog.Logger) (*memory.Memory, *memory.QdrantStore, func(), error) {
	noop := func() {}

	host := os.Getenv("QDRANT_HOST")
	if host == "" {
		log.Info("memory: disabled", slog.String("reason", "QDRANT_HOST not set"))
		return nil, nil, noop, nil
	}

	if err := embedder.ValidateForMemory(log); err != nil {
		return nil, nil, noop, fmt.Errorf("memory: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, nil, noop, fmt.Errorf("memory: creating embedder: %w", err)
	}

	backend := os.Getenv("EMBEDDING_PROVIDER")
	if backend == "" {
		backend = os.Getenv("MODEL_PROVIDER")
	}

	collection := os.Getenv("QDRANT_COLLECTION")
	if collection == "" {
		collection = "halo_stories"
	}

	qs, err := memory.NewQdrantStore(ctx, &memory.QdrantConfig{
		Host:       host,
		Port:       envInt("QDRANT_PORT", 6334),
		Collection: collection,
		VectorSize: uint64(embedder.DefaultDimensions(backend)),
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, nil, noop, fmt.Errorf("memory: connecting to qdrant: %w", err)
	}

	mem, err := memory.New(emb, qs, envInt("HALO_STORY_TOP_K", 0))
	if err != nil {
		_ = qs.Close()
		return nil, nil, noop, fmt.Errorf("memory: %w", err)
	}

	log.Info("memory: qdrant story store enabled",
		slog.String("host", host),
		slog.String("collection", collection),
	)
	return mem, qs, func() { _ = qs.Close() }, nil
}
