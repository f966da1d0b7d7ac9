package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/sermo/internal/interfaces"
)

// indexEntry pairs one chunk with its embedding vector
type indexEntry struct {
	chunk     interfaces.Chunk
	embedding []float32
}

// Index is an in-memory vector index over one session's chunks. It lives
// for a single answer-generation call and is discarded afterwards.
type Index struct {
	entries  []indexEntry
	embedder interfaces.EmbeddingService
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*Index)(nil)

// Retrieve embeds the query and returns the k most similar chunks by
// cosine similarity, best first.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]interfaces.Chunk, error) {
	if len(idx.entries) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 4
	}

	queryVec, err := idx.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	type scored struct {
		chunk interfaces.Chunk
		score float64
	}
	results := make([]scored, 0, len(idx.entries))
	for _, entry := range idx.entries {
		results = append(results, scored{
			chunk: entry.chunk,
			score: cosineSimilarity(queryVec, entry.embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	chunks := make([]interfaces.Chunk, k)
	for i := 0; i < k; i++ {
		chunks[i] = results[i].chunk
	}
	return chunks, nil
}

// Size returns the number of indexed chunks
func (idx *Index) Size() int {
	return len(idx.entries)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
