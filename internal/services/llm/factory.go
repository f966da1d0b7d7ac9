package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based on
// configuration. Gemini serves both chat and embeddings; selecting Claude
// pairs Claude chat with Gemini embeddings because Anthropic has no
// embedding API.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderGemini
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderGemini:
		return NewGeminiService(cfg, logger)

	case common.LLMProviderClaude:
		claude, err := NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		gemini, err := NewGeminiService(cfg, logger)
		if err != nil {
			claude.Close()
			return nil, fmt.Errorf("failed to create Gemini embedding backend for Claude: %w", err)
		}
		return &splitService{chat: claude, embed: gemini}, nil

	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'gemini' or 'claude'", provider)
	}
}

// splitService pairs one provider for chat with another for embeddings
type splitService struct {
	chat  interfaces.LLMService
	embed interfaces.LLMService
}

func (s *splitService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embed.Embed(ctx, text)
}

func (s *splitService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.chat.Chat(ctx, messages)
}

func (s *splitService) HealthCheck(ctx context.Context) error {
	if err := s.chat.HealthCheck(ctx); err != nil {
		return err
	}
	return s.embed.HealthCheck(ctx)
}

func (s *splitService) GetMode() interfaces.LLMMode {
	return s.chat.GetMode()
}

func (s *splitService) Close() error {
	chatErr := s.chat.Close()
	embedErr := s.embed.Close()
	if chatErr != nil {
		return chatErr
	}
	return embedErr
}
