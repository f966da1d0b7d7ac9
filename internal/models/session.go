package models

import (
	"strings"
	"time"
)

// DefaultTitle is assigned to freshly generated sessions. A metadata write
// carrying this value never overwrites a real title.
const DefaultTitle = "Untitled"

// MaxTitleLength bounds user-settable session titles
const MaxTitleLength = 100

// SessionMetadata is the per-session metadata record
type SessionMetadata struct {
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// ApplyTitle applies the title-update rule: trim, truncate to
// MaxTitleLength, and never let the default title clobber a real one.
func (m *SessionMetadata) ApplyTitle(title string) {
	title = strings.TrimSpace(title)
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength]
	}
	if title == "" {
		if m.Title == "" {
			m.Title = DefaultTitle
		}
		return
	}
	if title == DefaultTitle && m.Title != "" && m.Title != DefaultTitle {
		return
	}
	m.Title = title
}

// MessageLog is the persisted ordered message sequence for one session
type MessageLog struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}
