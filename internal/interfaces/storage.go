package interfaces

import (
	"github.com/ternarybob/sermo/internal/models"
)

// MemoryStore - interface for session message log and metadata persistence
type MemoryStore interface {
	// Message log operations
	Load(sessionID string) (*models.MessageLog, error)
	Save(log *models.MessageLog) error

	// ListSessions returns the IDs of every session with a stored log
	ListSessions() ([]string, error)

	// Metadata operations
	LoadMetadata(sessionID string) (*models.SessionMetadata, error)
	SaveMetadata(meta *models.SessionMetadata) error

	// Delete removes the message log and metadata for a session
	Delete(sessionID string) error
}

// FileMetadataStore - interface for per-session file metadata records
// (origin, source URL for scraped pages, scrape timestamp)
type FileMetadataStore interface {
	Get(sessionID string) (*models.SessionFiles, error)
	Put(files *models.SessionFiles) error
	DeleteFile(sessionID, filename string) error
	DeleteAll(sessionID string) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	MemoryStore() MemoryStore
	FileMetadataStore() FileMetadataStore
	DB() interface{}
	Close() error
}
