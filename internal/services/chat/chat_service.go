// -----------------------------------------------------------------------
// Conversation Controller - Chat turns, regeneration, alternatives
// -----------------------------------------------------------------------

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// NoCorpusNotice is returned as a success-shaped chat result when the
// session has no documents yet. The turn is not recorded.
const NoCorpusNotice = "Please upload at least one document or add web links before chatting"

// Service implements the ConversationService interface. It composes the
// document store, the per-call index builder, the answer engine and the
// memory store into the chat state machine.
type Service struct {
	documents interfaces.DocumentStore
	builder   interfaces.IndexBuilder
	engine    interfaces.AnswerEngine
	memory    interfaces.MemoryStore
	topK      int
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ConversationService = (*Service)(nil)

// NewService creates a conversation service
func NewService(
	documents interfaces.DocumentStore,
	builder interfaces.IndexBuilder,
	engine interfaces.AnswerEngine,
	memory interfaces.MemoryStore,
	topK int,
	logger arbor.ILogger,
) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		documents: documents,
		builder:   builder,
		engine:    engine,
		memory:    memory,
		topK:      topK,
		logger:    logger,
	}
}

// Chat runs one conversation turn. The human/AI message pair is appended
// to the session log only after the answer is successfully generated; a
// failed or empty-corpus turn leaves the log untouched.
func (s *Service) Chat(ctx context.Context, sessionID, input string) (*interfaces.ChatResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", models.ErrInvalidInput)
	}

	// Empty corpus is guidance, not failure: nothing is recorded
	hasDocs, err := s.documents.HasDocuments(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session corpus: %w", err)
	}
	if !hasDocs {
		s.logger.Debug().Str("session_id", sessionID).Msg("Chat on session without corpus")
		return &interfaces.ChatResult{Response: NoCorpusNotice, NoCorpus: true}, nil
	}

	// History is best-effort: a failed read degrades to an empty log
	log, err := s.memory.Load(sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to load history, continuing with empty log")
		log = &models.MessageLog{SessionID: sessionID}
	}

	// First message names the session
	if len(log.Messages) == 0 {
		meta := &models.SessionMetadata{SessionID: sessionID, Title: DeriveTitle(input)}
		if err := s.memory.SaveMetadata(meta); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to save session title")
		}
	}

	response, err := s.generate(ctx, sessionID, input, FormatHistory(log.Messages), nil)
	if err != nil {
		return nil, err
	}

	log.Messages = append(log.Messages,
		models.NewHumanMessage(common.NewMessageID(), input),
		models.NewAIMessage(common.NewMessageID(), response),
	)
	// The answer was already generated: a failed save loses the record
	// but not the response
	if err := s.memory.Save(log); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist chat turn")
	} else {
		s.logger.Info().
			Str("session_id", sessionID).
			Int("history_length", len(log.Messages)).
			Msg("Chat turn recorded")
	}

	return &interfaces.ChatResult{Response: response}, nil
}

// Regenerate produces an additional alternative for the most recent AI
// message that answered input. Unlike Chat, an empty corpus is a hard
// failure here: there is nothing to re-ground the answer in.
func (s *Service) Regenerate(ctx context.Context, sessionID, input string) (*interfaces.RegenerateResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", models.ErrInvalidInput)
	}

	hasDocs, err := s.documents.HasDocuments(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session corpus: %w", err)
	}
	if !hasDocs {
		return nil, fmt.Errorf("cannot regenerate without documents: %w", models.ErrNoCorpus)
	}

	log, err := s.memory.Load(sessionID)
	if err != nil {
		return nil, err
	}

	// Walk backwards for the most recent AI answer to this exact question
	target := -1
	for i := len(log.Messages) - 1; i > 0; i-- {
		if log.Messages[i].Type == models.MessageTypeAI &&
			log.Messages[i-1].Type == models.MessageTypeHuman &&
			log.Messages[i-1].Content == input {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, fmt.Errorf("no AI response found for this question: %w", models.ErrNotFound)
	}

	msg := &log.Messages[target]
	if !msg.CanRegenerate() {
		return nil, fmt.Errorf("regeneration cap of %d reached for message %s: %w",
			models.MaxRegenerations, msg.ID, models.ErrLimitExceeded)
	}

	// The entry being regenerated is excluded from the transcript
	history := FormatHistory(log.Messages[:len(log.Messages)-1])

	response, err := s.generate(ctx, sessionID, input, history, msg.Alternatives)
	if err != nil {
		return nil, err
	}

	msg.AddAlternative(response)
	if err := s.memory.Save(log); err != nil {
		return nil, fmt.Errorf("failed to persist regenerated response: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("message_id", msg.ID).
		Int("alternatives", len(msg.Alternatives)).
		Int("regeneration_count", msg.RegenerationCount).
		Msg("Response regenerated")

	return &interfaces.RegenerateResult{
		Response:          response,
		AlternativesCount: len(msg.Alternatives),
		RegenerationCount: msg.RegenerationCount,
	}, nil
}

// generate builds the per-call retrieval index and runs the answer engine.
// A corpus that yields no text falls back to general-knowledge answering.
func (s *Service) generate(ctx context.Context, sessionID, question, history string, priorAttempts []string) (string, error) {
	retriever, err := s.builder.Build(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var contextText string
	if retriever != nil {
		chunks, err := retriever.Retrieve(ctx, question, s.topK)
		if err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Retrieval failed")
			return "", models.ErrUpstreamError
		}
		parts := make([]string, len(chunks))
		for i, chunk := range chunks {
			parts[i] = chunk.Text
		}
		contextText = strings.Join(parts, "\n\n")
	}

	return s.engine.Answer(ctx, &interfaces.AnswerRequest{
		Question:      question,
		History:       history,
		Context:       contextText,
		PriorAttempts: priorAttempts,
	})
}

// SelectAlternative switches the active alternative of an AI message.
// An out-of-range index leaves the stored message untouched.
func (s *Service) SelectAlternative(sessionID, messageID string, index int) (*models.Message, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(messageID) == "" {
		return nil, fmt.Errorf("session ID and message ID are required: %w", models.ErrInvalidInput)
	}

	log, err := s.memory.Load(sessionID)
	if err != nil {
		return nil, err
	}

	for i := range log.Messages {
		msg := &log.Messages[i]
		if msg.ID != messageID {
			continue
		}
		if msg.Type != models.MessageTypeAI {
			return nil, fmt.Errorf("message %s is not an AI response: %w", messageID, models.ErrNotFound)
		}
		if err := msg.SelectAlternative(index); err != nil {
			return nil, err
		}
		if err := s.memory.Save(log); err != nil {
			return nil, fmt.Errorf("failed to persist alternative selection: %w", err)
		}
		selected := *msg
		return &selected, nil
	}

	return nil, fmt.Errorf("message %s not found in session %s: %w", messageID, sessionID, models.ErrNotFound)
}

// History returns the persisted message log, oldest first
func (s *Service) History(sessionID string) ([]models.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	log, err := s.memory.Load(sessionID)
	if err != nil {
		return nil, err
	}
	return log.Messages, nil
}

// ReplaceHistory overwrites the session's message log wholesale. AI
// entries arriving without an alternatives block are normalized so the
// storage invariants hold.
func (s *Service) ReplaceHistory(sessionID string, messages []models.Message) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	for i := range messages {
		msg := &messages[i]
		if msg.ID == "" {
			msg.ID = common.NewMessageID()
		}
		if msg.Type == models.MessageTypeAI && len(msg.Alternatives) == 0 {
			msg.Alternatives = []string{msg.Content}
			msg.ActiveIndex = 0
		}
	}

	return s.memory.Save(&models.MessageLog{SessionID: sessionID, Messages: messages})
}
