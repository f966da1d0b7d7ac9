package retrieval

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// Builder constructs an ephemeral vector index from a session's corpus.
// Every answer-generation call gets a fresh index reflecting the corpus
// exactly as it stands; nothing is cached between calls.
type Builder struct {
	documents interfaces.DocumentStore
	embedder  interfaces.EmbeddingService
	chunker   *Chunker
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.IndexBuilder = (*Builder)(nil)

// NewBuilder creates an index builder
func NewBuilder(documents interfaces.DocumentStore, embedder interfaces.EmbeddingService, chunker *Chunker, logger arbor.ILogger) *Builder {
	return &Builder{
		documents: documents,
		embedder:  embedder,
		chunker:   chunker,
		logger:    logger,
	}
}

// Build extracts, chunks and embeds the session's documents into an
// in-memory index. Returns (nil, nil) when the corpus yields no text.
// A document whose embedding fails is skipped; a corpus where every
// document fails is reported as an upstream error.
func (b *Builder) Build(ctx context.Context, sessionID string) (interfaces.Retriever, error) {
	texts, err := b.documents.ReadAllText(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session corpus: %w", err)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var entries []indexEntry
	var failedDocs int
	for _, doc := range texts {
		chunks := b.chunker.Split(doc.Text)
		if len(chunks) == 0 {
			continue
		}

		docFailed := false
		docEntries := make([]indexEntry, 0, len(chunks))
		for _, chunk := range chunks {
			vec, err := b.embedder.GenerateEmbedding(ctx, chunk)
			if err != nil {
				b.logger.Warn().Err(err).Str("file", doc.Name).Msg("Embedding failed, skipping document")
				docFailed = true
				break
			}
			docEntries = append(docEntries, indexEntry{
				chunk:     interfaces.Chunk{Source: doc.Name, Text: chunk},
				embedding: vec,
			})
		}
		if docFailed {
			failedDocs++
			continue
		}
		entries = append(entries, docEntries...)
	}

	if len(entries) == 0 {
		if failedDocs > 0 {
			return nil, fmt.Errorf("embedding failed for all %d documents: %w", failedDocs, models.ErrUpstreamError)
		}
		return nil, nil
	}

	b.logger.Debug().
		Str("session_id", sessionID).
		Int("documents", len(texts)).
		Int("chunks", len(entries)).
		Int("failed_documents", failedDocs).
		Msg("Built retrieval index")

	return &Index{entries: entries, embedder: b.embedder}, nil
}
