package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// Service implements EmbeddingService interface
type Service struct {
	llmService interfaces.LLMService
	dimension  int
	logger     arbor.ILogger
}

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	return &Service{
		llmService: llmService,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, text)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Str("mode", string(s.llmService.GetMode())).
		Int("embedding_dim", len(embedding)).
		Dur("duration", duration).
		Msg("Generated embedding")

	return embedding, nil
}

// GenerateQueryEmbedding generates embedding for a retrieval query
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	// Queries and documents share one embedding space, no prefix needed
	return s.GenerateEmbedding(ctx, query)
}

// ModelName returns the model name
func (s *Service) ModelName() string {
	return string(s.llmService.GetMode())
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks if the embedding service is available
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.llmService == nil {
		return false
	}

	err := s.llmService.HealthCheck(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("LLM service not available")
		return false
	}

	return true
}
