package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements the MemoryStore interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.MemoryStore {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// Load returns the message log for a session. A session that has never
// been written yields an empty log, not an error.
func (s *SessionStorage) Load(sessionID string) (*models.MessageLog, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	var log models.MessageLog
	if err := s.db.Store().Get(sessionID, &log); err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.MessageLog{SessionID: sessionID, Messages: []models.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load message log: %w", err)
	}
	return &log, nil
}

// Save persists the message log after validating every entry. The write
// replaces the stored log wholesale.
func (s *SessionStorage) Save(log *models.MessageLog) error {
	if log.SessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	for i := range log.Messages {
		if err := log.Messages[i].Validate(); err != nil {
			return fmt.Errorf("message %d rejected: %w", i, err)
		}
	}

	log.UpdatedAt = time.Now()
	if err := s.db.Store().Upsert(log.SessionID, log); err != nil {
		return fmt.Errorf("failed to save message log: %w", err)
	}
	return nil
}

// LoadMetadata returns the metadata record for a session, or
// models.ErrNotFound when none exists.
func (s *SessionStorage) LoadMetadata(sessionID string) (*models.SessionMetadata, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	var meta models.SessionMetadata
	if err := s.db.Store().Get(sessionID, &meta); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("session metadata %s: %w", sessionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load session metadata: %w", err)
	}
	return &meta, nil
}

// SaveMetadata merges the incoming record with what is stored: CreatedAt
// is written once, LastUpdated on every write, and the default title never
// overwrites a real one.
func (s *SessionStorage) SaveMetadata(meta *models.SessionMetadata) error {
	if meta.SessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	now := time.Now()
	record := models.SessionMetadata{
		SessionID:   meta.SessionID,
		Title:       models.DefaultTitle,
		CreatedAt:   now,
		LastUpdated: now,
	}

	var existing models.SessionMetadata
	err := s.db.Store().Get(meta.SessionID, &existing)
	switch {
	case err == nil:
		record.Title = existing.Title
		record.CreatedAt = existing.CreatedAt
	case err != badgerhold.ErrNotFound:
		return fmt.Errorf("failed to load session metadata: %w", err)
	}

	record.ApplyTitle(meta.Title)

	if err := s.db.Store().Upsert(meta.SessionID, &record); err != nil {
		return fmt.Errorf("failed to save session metadata: %w", err)
	}

	*meta = record
	return nil
}

// ListSessions returns the IDs of every session with a stored message log,
// most recently written first.
func (s *SessionStorage) ListSessions() ([]string, error) {
	var logs []models.MessageLog
	if err := s.db.Store().Find(&logs, nil); err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].UpdatedAt.After(logs[j].UpdatedAt)
	})

	ids := make([]string, len(logs))
	for i := range logs {
		ids[i] = logs[i].SessionID
	}
	return ids, nil
}

// Delete removes the message log and metadata record for a session.
// Missing records are not an error.
func (s *SessionStorage) Delete(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	if err := s.db.Store().Delete(sessionID, &models.MessageLog{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete message log: %w", err)
	}
	if err := s.db.Store().Delete(sessionID, &models.SessionMetadata{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session metadata: %w", err)
	}
	return nil
}
