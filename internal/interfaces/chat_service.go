package interfaces

import (
	"context"

	"github.com/ternarybob/sermo/internal/models"
)

// ChatResult is the outcome of one answer-generation turn
type ChatResult struct {
	// Generated assistant response (or the no-corpus notice)
	Response string `json:"response"`

	// NoCorpus is true when the session has no documents or web links yet;
	// the turn is not recorded and Response carries the guidance notice
	NoCorpus bool `json:"no_corpus,omitempty"`
}

// RegenerateResult is the outcome of regenerating the latest answer
type RegenerateResult struct {
	// The newly generated alternative, now active
	Response string `json:"response"`

	// Total alternatives recorded for the message after this call
	AlternativesCount int `json:"alternatives_count"`

	// Regenerations consumed so far (capped at models.MaxRegenerations)
	RegenerationCount int `json:"regeneration_count"`
}

// ConversationService drives the chat turns of a session: answer
// generation grounded in the session corpus, bounded regeneration, and
// alternative selection. All operations persist through the memory store.
type ConversationService interface {
	// Chat runs one turn: validates input, checks the corpus, generates a
	// grounded answer and appends the human/AI message pair to the session
	// log. An empty corpus yields a NoCorpus result without recording.
	Chat(ctx context.Context, sessionID, input string) (*ChatResult, error)

	// Regenerate produces an additional alternative for the most recent AI
	// message answering input. Fails with models.ErrNoCorpus when the corpus
	// is empty, models.ErrNotFound when no matching message exists, and
	// models.ErrLimitExceeded once the regeneration cap is reached.
	Regenerate(ctx context.Context, sessionID, input string) (*RegenerateResult, error)

	// SelectAlternative switches the active alternative of the message.
	SelectAlternative(sessionID, messageID string, index int) (*models.Message, error)

	// History returns the persisted message log for the session, oldest first.
	History(sessionID string) ([]models.Message, error)

	// ReplaceHistory overwrites the session's message log wholesale after
	// validating every entry.
	ReplaceHistory(sessionID string, messages []models.Message) error
}
