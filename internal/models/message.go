package models

import (
	"fmt"
	"time"
)

// MessageType distinguishes the two message variants in a session log
type MessageType string

const (
	// MessageTypeHuman is a message sent by the user
	MessageTypeHuman MessageType = "human"
	// MessageTypeAI is a generated assistant response
	MessageTypeAI MessageType = "ai"
)

// Message represents one entry in a session's ordered message log.
// Human messages carry only ID, Content and Timestamp. AI messages
// additionally track every generated alternative for the turn: Content
// always mirrors Alternatives[ActiveIndex].
type Message struct {
	ID        string      `json:"id"` // msg_{uuid}
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// AI-only fields
	Alternatives      []string `json:"alternatives,omitempty"`
	ActiveIndex       int      `json:"active_index,omitempty"`
	RegenerationCount int      `json:"regeneration_count,omitempty"`
}

// MaxRegenerations caps how many alternatives can be generated per AI turn
// beyond the original response.
const MaxRegenerations = 3

// NewHumanMessage creates a user message with a fresh ID and timestamp
func NewHumanMessage(id, content string) Message {
	return Message{
		ID:        id,
		Type:      MessageTypeHuman,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAIMessage creates an assistant message seeded with its first response
// as the only alternative.
func NewAIMessage(id, content string) Message {
	return Message{
		ID:           id,
		Type:         MessageTypeAI,
		Content:      content,
		Timestamp:    time.Now(),
		Alternatives: []string{content},
	}
}

// IsAI reports whether the message is an assistant response
func (m *Message) IsAI() bool {
	return m.Type == MessageTypeAI
}

// ActiveContent returns the currently selected alternative for AI messages,
// falling back to Content when no alternatives are recorded.
func (m *Message) ActiveContent() string {
	if m.Type == MessageTypeAI && len(m.Alternatives) > 0 && m.ActiveIndex >= 0 && m.ActiveIndex < len(m.Alternatives) {
		return m.Alternatives[m.ActiveIndex]
	}
	return m.Content
}

// AddAlternative appends a newly generated response, makes it active and
// bumps the regeneration counter. Alternatives only ever grow.
func (m *Message) AddAlternative(text string) {
	if len(m.Alternatives) == 0 {
		m.Alternatives = []string{m.Content}
	}
	m.Alternatives = append(m.Alternatives, text)
	m.ActiveIndex = len(m.Alternatives) - 1
	m.Content = text
	m.RegenerationCount++
}

// SelectAlternative switches the active alternative and syncs Content.
// The stored message is left untouched when the index is out of range.
func (m *Message) SelectAlternative(index int) error {
	if m.Type != MessageTypeAI || len(m.Alternatives) == 0 {
		return fmt.Errorf("message %s has no alternatives: %w", m.ID, ErrNotFound)
	}
	if index < 0 || index >= len(m.Alternatives) {
		return fmt.Errorf("alternative index %d out of range [0,%d): %w", index, len(m.Alternatives), ErrInvalidIndex)
	}
	m.ActiveIndex = index
	m.Content = m.Alternatives[index]
	return nil
}

// CanRegenerate reports whether another alternative may be generated
func (m *Message) CanRegenerate() bool {
	return m.RegenerationCount < MaxRegenerations
}

// Validate checks the structural invariants enforced at the storage boundary
func (m *Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message ID is required")
	}
	switch m.Type {
	case MessageTypeHuman:
		return nil
	case MessageTypeAI:
		if len(m.Alternatives) == 0 {
			return fmt.Errorf("AI message %s has no alternatives", m.ID)
		}
		if m.ActiveIndex < 0 || m.ActiveIndex >= len(m.Alternatives) {
			return fmt.Errorf("AI message %s active_index %d out of range", m.ID, m.ActiveIndex)
		}
		if m.Content != m.Alternatives[m.ActiveIndex] {
			return fmt.Errorf("AI message %s content does not match active alternative", m.ID)
		}
		return nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
}
