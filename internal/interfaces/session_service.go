package interfaces

import (
	"github.com/ternarybob/sermo/internal/models"
)

// SessionInfo is the listing view of a session
type SessionInfo struct {
	SessionID   string `json:"session_id"`
	Title       string `json:"title"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// SessionService manages session lifecycle and metadata
type SessionService interface {
	// Generate mints a new session ID; no state is created until first use
	Generate() string

	// List returns known sessions sorted by last update, newest first
	List() ([]*SessionInfo, error)

	// UpdateTitle writes the session title, subject to the metadata rules
	// (trimming, truncation, "Untitled" never overwriting a real title)
	UpdateTitle(sessionID, title string) (*models.SessionMetadata, error)

	// Delete removes the session's message log, metadata, document files
	// and file metadata records
	Delete(sessionID string) error
}
