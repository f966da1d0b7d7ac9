package interfaces

import (
	"context"
)

// Chunk is one indexed slice of a corpus document
type Chunk struct {
	// Source document filename
	Source string

	// Chunk text content
	Text string
}

// Retriever answers similarity queries against an in-memory index
type Retriever interface {
	// Retrieve returns the k most similar chunks to the query, best first
	Retrieve(ctx context.Context, query string, k int) ([]Chunk, error)
}

// IndexBuilder constructs a fresh retrieval index from a session's corpus.
// The index is ephemeral: built per answer-generation call, never cached.
type IndexBuilder interface {
	// Build extracts, chunks and embeds the session's documents. Returns
	// (nil, nil) when the corpus is empty or no document yields text.
	Build(ctx context.Context, sessionID string) (Retriever, error)
}
