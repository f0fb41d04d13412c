// Package memory defines the story memory used by the capture agents:
// expert stories are embedded and stored in a vector database, then retrieved
// by semantic similarity to enrich later capture prompts. Concrete backends
// (Qdrant) satisfy these interfaces so the capture layer never depends on a
// specific store.
package memory

import (
	"context"
)

// Story is a unit of captured expertise held in story memory.
type Story struct {
	// ID is the unique identifier for this story.
	ID string

	// Session is the capture session the story was recorded in.
	Session string

	// Method is the capture method key that produced the story ("1".."4").
	Method string

	// Content is the story text.
	Content string

	// Score is the similarity score assigned during retrieval (0.0–1.0).
	// Zero value means the score was not computed.
	Score float32
}

// VectorStore is the interface for persisting and searching story embeddings.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores or updates a batch of stories with their pre-computed embeddings.
	// The embeddings slice must be parallel to stories — embeddings[i] is the vector for stories[i].
	Upsert(ctx context.Context, stories []Story, embeddings [][]float32) error

	// Search returns the top-k stories most similar to the query embedding,
	// restricted to the given session.
	Search(ctx context.Context, session string, queryEmbedding []float32, topK int) ([]Story, error)

	// Delete removes stories by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
