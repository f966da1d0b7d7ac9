package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the LLMService interface using Google's genai
// client. It provides embedding and chat completions using Gemini models.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
	retry   *GeminiRetryConfig
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content format.
// Maps Role values to provider's expected values and maintains chronological ordering.
// Extracts system messages separately for use with SystemInstruction.
// Returns the user/model messages, the first system message content (if any), and an error.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	// Check that at least one message has role "user"
	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	// Convert messages to Gemini format, excluding system messages
	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		// Handle system messages separately
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue // Don't add system messages to contents
		}

		// Map Role values to Gemini expected values
		var geminiRole string
		switch msg.Role {
		case "assistant":
			geminiRole = genai.RoleModel
		case "user":
			geminiRole = genai.RoleUser
		default:
			geminiRole = genai.RoleUser // Default to user for unknown roles
		}

		part := genai.NewPartFromText(msg.Content)
		content := &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{part},
		}

		contents = append(contents, content)
	}

	return contents, systemText, nil
}

// NewGeminiService creates a Gemini-backed LLM service. Fails on a
// missing API key, an invalid timeout, or client initialization errors.
func NewGeminiService(config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	if config.Gemini.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY, SERMO_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	// Set default model names if not specified
	if config.Gemini.EmbedModel == "" {
		config.Gemini.EmbedModel = "gemini-embedding-001"
	}
	if config.Gemini.Model == "" {
		config.Gemini.Model = "gemini-2.0-flash"
	}
	if config.Gemini.EmbedDim <= 0 {
		config.Gemini.EmbedDim = 768
	}

	// Parse timeout duration
	timeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Gemini.Timeout, err)
	}

	// Initialize genai client
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  &config.Gemini,
		logger:  logger,
		client:  client,
		timeout: timeout,
		retry:   NewDefaultRetryConfig(),
	}

	logger.Info().
		Str("embed_model", config.Gemini.EmbedModel).
		Str("chat_model", config.Gemini.Model).
		Int("embed_dimension", config.Gemini.EmbedDim).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized successfully")

	return service, nil
}

// Embed generates an embedding vector for the given text using the
// configured embedding model with a fixed output dimensionality, so every
// vector in one retrieval index is comparable.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	// Create timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("text_length", len(text)).
		Msg("Starting embedding generation")

	embedding, err := s.embedWithRetry(timeoutCtx, text)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("text_length", len(text)).
			Msg("Embedding generation failed")
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	duration := time.Since(startTime)
	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", duration).
		Msg("Embedding generation completed")

	return embedding, nil
}

// Chat generates a completion from the conversation history, given in
// chronological order including system prompts and prior turns.
func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	// Create timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("message_count", len(messages)).
		Msg("Starting chat completion")

	response, err := s.generateCompletion(timeoutCtx, messages)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	duration := time.Since(startTime)
	s.logger.Info().
		Int("message_count", len(messages)).
		Int("response_length", len(response)).
		Dur("duration", duration).
		Msg("Chat completion completed successfully")

	return response, nil
}

// HealthCheck probes both the embedding and chat models with short
// timeouts to verify connectivity and authentication.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	s.logger.Debug().Msg("Running Gemini LLM service health check")

	// Verify client is initialized
	if s.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	if err := s.performEmbeddingHealthCheck(ctx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("Embedding model health check failed")
		return fmt.Errorf("embedding model health check failed: %w", err)
	}

	if err := s.performChatHealthCheck(ctx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("Chat model health check failed")
		return fmt.Errorf("chat model health check failed: %w", err)
	}

	s.logger.Info().
		Str("embed_model", s.config.EmbedModel).
		Str("chat_model", s.config.Model).
		Msg("Gemini LLM service health check passed")

	return nil
}

// performEmbeddingHealthCheck exercises the embedding model with a lightweight probe.
func (s *GeminiService) performEmbeddingHealthCheck(ctx context.Context) error {
	// 5s timeout to avoid false negatives on slow links
	healthCheckCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	testText := "health check probe"

	embedding, err := s.generateEmbedding(healthCheckCtx, testText)
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}

	if len(embedding) == 0 {
		return fmt.Errorf("embedding probe returned empty vector")
	}

	s.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Msg("Embedding model health check passed")

	return nil
}

// performChatHealthCheck exercises the chat model with a minimal probe.
func (s *GeminiService) performChatHealthCheck(ctx context.Context) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	testMessages := []interfaces.Message{
		{
			Role:    "user",
			Content: "ping",
		},
	}

	response, err := s.generateCompletion(healthCheckCtx, testMessages)
	if err != nil {
		return fmt.Errorf("chat probe failed: %w", err)
	}

	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("chat probe returned empty response")
	}

	s.logger.Debug().
		Int("response_length", len(response)).
		Msg("Chat model health check passed")

	return nil
}

// GetMode returns the current operational mode of the LLM service.
func (s *GeminiService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources and performs cleanup operations.
func (s *GeminiService) Close() error {
	s.logger.Info().Msg("Closing Gemini LLM service")

	// Clear client reference (genai.Client doesn't require explicit Close)
	s.client = nil

	return nil
}

// embedWithRetry retries rate-limited embedding calls with backoff. Index
// builds embed every chunk of the corpus, so quota exhaustion is expected
// on large uploads; other errors fail immediately.
func (s *GeminiService) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		embedding, err := s.generateEmbedding(ctx, text)
		if err == nil {
			return embedding, nil
		}
		lastErr = err
		if !IsRateLimitError(err) {
			return nil, err
		}

		backoff := s.retry.CalculateBackoff(attempt, ExtractRetryDelay(err))
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Gemini rate limited, backing off before retry")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

// generateEmbedding encapsulates the genai embedding call with the
// configured output dimensionality.
func (s *GeminiService) generateEmbedding(ctx context.Context, text string) ([]float32, error) {
	outputDim := int32(s.config.EmbedDim)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(ctx, s.config.EmbedModel, []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	// Extract embedding vector from response
	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}

	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	// Validate embedding dimension
	if len(embedding) != s.config.EmbedDim {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbedDim, len(embedding))
	}

	return embedding, nil
}

// generateCompletion encapsulates the genai chat completion call.
func (s *GeminiService) generateCompletion(ctx context.Context, messages []interfaces.Message) (string, error) {
	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}

	// Set SystemInstruction if system message exists
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, geminiContents, config)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	// Extract text from response - iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			// If we found text in this candidate, use it
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from chat model")
	}

	return response.String(), nil
}
