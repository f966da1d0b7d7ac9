package interfaces

import (
	"context"
)

// EmbeddingService produces the vectors backing the per-session
// retrieval index.
type EmbeddingService interface {
	// GenerateEmbedding embeds one document chunk
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateQueryEmbedding embeds a retrieval query; queries and chunks
	// share one embedding space
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// ModelName and Dimension describe the configured embedding model
	ModelName() string
	Dimension() int

	// IsAvailable reports whether the backing provider is reachable
	IsAvailable(ctx context.Context) bool
}
