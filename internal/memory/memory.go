package memory

import (
	"context"
	"fmt"
	"strings"
)

// Memory combines an Embedder and a VectorStore into the high-level story
// memory used by the capture agents. It embeds story text at save time and
// queries at retrieval time, delegating similarity search to the store.
type Memory struct {
	// embedder converts story and query text to dense vectors.
	embedder Embedder

	// store performs the vector similarity search.
	store VectorStore

	// defaultTopK is the number of results to return when the caller passes 0.
	defaultTopK int
}

// New constructs a Memory from the given Embedder and VectorStore.
// defaultTopK sets the fallback result count when Retrieve is called with topK=0.
func New(embedder Embedder, store VectorStore, defaultTopK int) (*Memory, error) {
	if embedder == nil {
		return nil, fmt.Errorf("memory: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("memory: store must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Memory{
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
	}, nil
}

// Save embeds the story content and upserts it into the store. An empty ID
// is replaced with a deterministic one derived from session and content.
func (m *Memory) Save(ctx context.Context, story Story) error {
	if strings.TrimSpace(story.Content) == "" {
		return fmt.Errorf("memory: story content must not be empty")
	}
	if story.ID == "" {
		story.ID = StoryID(story.Session, story.Content)
	}

	embeddings, err := m.embedder.Embed(ctx, []string{story.Content})
	if err != nil {
		return fmt.Errorf("memory: embedding story failed: %w", err)
	}
	if len(embeddings) == 0 {
		return fmt.Errorf("memory: embedder returned empty result for story")
	}

	if err := m.store.Upsert(ctx, []Story{story}, embeddings[:1]); err != nil {
		return fmt.Errorf("memory: upsert failed: %w", err)
	}

	return nil
}

// Retrieve embeds the query and returns the session's top-k most relevant
// stories. If topK is 0 the defaultTopK configured at construction time is used.
func (m *Memory) Retrieve(ctx context.Context, session, query string, topK int) ([]Story, error) {
	if topK <= 0 {
		topK = m.defaultTopK
	}

	embeddings, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("memory: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("memory: embedder returned empty result for query")
	}

	stories, err := m.store.Search(ctx, session, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("memory: vector search failed: %w", err)
	}

	return stories, nil
}

// FormatStories renders retrieved stories as a newline-separated block
// suitable for substitution into a capture prompt. An empty slice renders
// as an empty string.
func FormatStories(stories []Story) string {
	if len(stories) == 0 {
		return ""
	}
	var b strings.Builder
	for i, story := range stories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(story.Content)
	}
	return b.String()
}
