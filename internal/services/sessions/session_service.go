// -----------------------------------------------------------------------
// Session Service - Lifecycle, listing and title management
// -----------------------------------------------------------------------

package sessions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// Service implements the SessionService interface
type Service struct {
	memory    interfaces.MemoryStore
	documents interfaces.DocumentStore
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.SessionService = (*Service)(nil)

// NewService creates a session service
func NewService(memory interfaces.MemoryStore, documents interfaces.DocumentStore, logger arbor.ILogger) *Service {
	return &Service{
		memory:    memory,
		documents: documents,
		logger:    logger,
	}
}

// Generate mints a new session ID and records its metadata so the session
// is listable before the first message arrives.
func (s *Service) Generate() string {
	id := common.NewSessionID()
	meta := &models.SessionMetadata{SessionID: id, Title: models.DefaultTitle}
	if err := s.memory.SaveMetadata(meta); err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to record session metadata")
	}
	s.logger.Debug().Str("session_id", id).Msg("Generated session ID")
	return id
}

// List returns every session with a stored message log, newest first.
// Sessions whose metadata record is missing get a synthesized default.
func (s *Service) List() ([]*interfaces.SessionInfo, error) {
	ids, err := s.memory.ListSessions()
	if err != nil {
		return nil, err
	}

	infos := make([]*interfaces.SessionInfo, 0, len(ids))
	for _, id := range ids {
		meta, err := s.memory.LoadMetadata(id)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				return nil, err
			}
			meta = &models.SessionMetadata{
				SessionID:   id,
				Title:       defaultListTitle(id),
				LastUpdated: time.Now(),
			}
		}
		infos = append(infos, &interfaces.SessionInfo{
			SessionID:   id,
			Title:       meta.Title,
			LastUpdated: meta.LastUpdated.Format(time.RFC3339),
		})
	}
	return infos, nil
}

// defaultListTitle is shown for sessions that never got a real title
func defaultListTitle(sessionID string) string {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Session %s...", short)
}

// UpdateTitle writes the session title, subject to the metadata rules
func (s *Service) UpdateTitle(sessionID, title string) (*models.SessionMetadata, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", models.ErrInvalidInput)
	}

	meta := &models.SessionMetadata{SessionID: sessionID, Title: title}
	if err := s.memory.SaveMetadata(meta); err != nil {
		return nil, err
	}

	s.logger.Info().Str("session_id", sessionID).Str("title", meta.Title).Msg("Session title updated")
	return meta, nil
}

// Delete removes everything the session owns: message log, metadata,
// document files and file metadata records.
func (s *Service) Delete(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}

	if err := s.documents.DeleteAll(sessionID); err != nil {
		return fmt.Errorf("failed to delete session documents: %w", err)
	}
	if err := s.memory.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session memory: %w", err)
	}

	s.logger.Info().Str("session_id", sessionID).Msg("Session deleted")
	return nil
}
