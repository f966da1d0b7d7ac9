package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// FileMetadataStorage implements the FileMetadataStore interface for Badger
type FileMetadataStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFileMetadataStorage creates a new FileMetadataStorage instance
func NewFileMetadataStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FileMetadataStore {
	return &FileMetadataStorage{
		db:     db,
		logger: logger,
	}
}

// Get returns the file metadata table for a session. A session with no
// recorded files yields an empty table, not an error.
func (s *FileMetadataStorage) Get(sessionID string) (*models.SessionFiles, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	var files models.SessionFiles
	if err := s.db.Store().Get(sessionID, &files); err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.SessionFiles{SessionID: sessionID, Files: map[string]models.FileMetadata{}}, nil
		}
		return nil, fmt.Errorf("failed to load file metadata: %w", err)
	}
	if files.Files == nil {
		files.Files = map[string]models.FileMetadata{}
	}
	return &files, nil
}

// Put replaces the session's file metadata table
func (s *FileMetadataStorage) Put(files *models.SessionFiles) error {
	if files.SessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if err := s.db.Store().Upsert(files.SessionID, files); err != nil {
		return fmt.Errorf("failed to save file metadata: %w", err)
	}
	return nil
}

// DeleteFile removes one file entry from the session's table
func (s *FileMetadataStorage) DeleteFile(sessionID, filename string) error {
	files, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if _, ok := files.Files[filename]; !ok {
		return nil
	}
	delete(files.Files, filename)
	return s.Put(files)
}

// DeleteAll removes the session's file metadata table entirely
func (s *FileMetadataStorage) DeleteAll(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if err := s.db.Store().Delete(sessionID, &models.SessionFiles{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}
	return nil
}
