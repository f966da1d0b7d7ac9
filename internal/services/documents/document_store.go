// -----------------------------------------------------------------------
// Document Store - Per-session corpus on the filesystem
// -----------------------------------------------------------------------

package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// Store implements the DocumentStore interface over a root directory with
// one subdirectory per session. Origin metadata lives in the file metadata
// store; the files themselves are plain filesystem entries so external OCR
// tooling can drop companion artifacts alongside them.
type Store struct {
	root          string
	maxUploadSize int64
	fileMeta      interfaces.FileMetadataStore
	extractor     interfaces.TextExtractor
	logger        arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentStore = (*Store)(nil)

// NewStore creates a document store rooted at the configured directory
func NewStore(root string, maxUploadSize int64, fileMeta interfaces.FileMetadataStore, extractor interfaces.TextExtractor, logger arbor.ILogger) *Store {
	return &Store{
		root:          root,
		maxUploadSize: maxUploadSize,
		fileMeta:      fileMeta,
		extractor:     extractor,
		logger:        logger,
	}
}

// sessionDir returns the directory holding one session's files
func (s *Store) sessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// sanitizeFilename reduces a client-supplied name to a safe basename
func sanitizeFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("unusable filename %q: %w", name, models.ErrInvalidInput)
	}
	return name, nil
}

// listFilenames returns the session's corpus filenames, hiding OCR
// companion artifacts.
func (s *Store) listFilenames(sessionID string) ([]string, error) {
	entries, err := os.ReadDir(s.sessionDir(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), models.OCRSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// HasDocuments reports whether the session has at least one corpus file
func (s *Store) HasDocuments(sessionID string) (bool, error) {
	names, err := s.listFilenames(sessionID)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// List returns display metadata for the session's files, newest first
func (s *Store) List(sessionID string) ([]*models.DocumentMeta, error) {
	names, err := s.listFilenames(sessionID)
	if err != nil {
		return nil, err
	}

	sessionFiles, err := s.fileMeta.Get(sessionID)
	if err != nil {
		return nil, err
	}

	dir := s.sessionDir(sessionID)
	metas := make([]*models.DocumentMeta, 0, len(names))
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}

		meta := &models.DocumentMeta{
			Name:        name,
			DisplayName: name,
			Origin:      models.OriginUpload,
			Size:        info.Size(),
			HumanSize:   models.HumanReadableSize(info.Size()),
			Modified:    info.ModTime(),
			Extension:   strings.ToLower(filepath.Ext(name)),
			IsImage:     models.IsImageFile(name),
		}
		if record, ok := sessionFiles.Files[name]; ok {
			if record.Origin != "" {
				meta.Origin = record.Origin
			}
			meta.SourceURL = record.SourceURL
		}
		if _, err := os.Stat(filepath.Join(dir, name+models.OCRSuffix)); err == nil {
			meta.OCRProcessed = true
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Modified.After(metas[j].Modified)
	})
	return metas, nil
}

// ReadAllText extracts plain text from every corpus file. Images are read
// through their OCR companion when one exists. Extraction failures skip
// the file rather than failing the batch.
func (s *Store) ReadAllText(ctx context.Context, sessionID string) ([]*models.DocumentText, error) {
	names, err := s.listFilenames(sessionID)
	if err != nil {
		return nil, err
	}

	dir := s.sessionDir(sessionID)
	var texts []*models.DocumentText
	for _, name := range names {
		path := filepath.Join(dir, name)

		// Images and scanned documents rely on the OCR companion text
		if models.IsImageFile(name) {
			companion := path + models.OCRSuffix
			data, err := os.ReadFile(companion)
			if err != nil {
				s.logger.Debug().Str("file", name).Msg("Image without OCR companion, skipping")
				continue
			}
			texts = append(texts, &models.DocumentText{Name: name, Text: string(data)})
			continue
		}

		if !s.extractor.CanExtract(name) {
			s.logger.Debug().Str("file", name).Msg("Unsupported format, skipping")
			continue
		}

		text, err := s.extractor.Extract(ctx, path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("Text extraction failed, skipping file")
			continue
		}
		if strings.TrimSpace(text) == "" {
			// Scanned PDFs carry no text layer; try the OCR companion
			if data, err := os.ReadFile(path + models.OCRSuffix); err == nil {
				text = string(data)
			}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, &models.DocumentText{Name: name, Text: text})
	}
	return texts, nil
}

// SaveUpload persists one uploaded file, enforcing the size cap
func (s *Store) SaveUpload(sessionID, filename string, r io.Reader, size int64) (*models.DocumentMeta, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return nil, fmt.Errorf("%s is %d bytes, cap is %d: %w", name, size, s.maxUploadSize, models.ErrTooLarge)
	}

	dir := s.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Guard against clients lying about size: cap the copy as well
	limit := io.Reader(r)
	if s.maxUploadSize > 0 {
		limit = io.LimitReader(r, s.maxUploadSize+1)
	}
	written, err := io.Copy(f, limit)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxUploadSize > 0 && written > s.maxUploadSize {
		os.Remove(path)
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", name, s.maxUploadSize, models.ErrTooLarge)
	}

	if err := s.recordMetadata(sessionID, name, models.FileMetadata{Origin: models.OriginUpload}); err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("Failed to record file metadata")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat saved file: %w", err)
	}

	s.logger.Info().Str("session_id", sessionID).Str("file", name).Int64("size", written).Msg("File uploaded")

	return &models.DocumentMeta{
		Name:        name,
		DisplayName: name,
		Origin:      models.OriginUpload,
		Size:        info.Size(),
		HumanSize:   models.HumanReadableSize(info.Size()),
		Modified:    info.ModTime(),
		Extension:   strings.ToLower(filepath.Ext(name)),
		IsImage:     models.IsImageFile(name),
	}, nil
}

// SaveScraped persists a scraped page with its origin metadata
func (s *Store) SaveScraped(sessionID, filename, content string, meta models.FileMetadata) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return err
	}

	dir := s.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write scraped file: %w", err)
	}

	if meta.Origin == "" {
		meta.Origin = models.OriginWebpage
	}
	if err := s.recordMetadata(sessionID, name, meta); err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("Failed to record file metadata")
	}
	return nil
}

func (s *Store) recordMetadata(sessionID, name string, meta models.FileMetadata) error {
	sessionFiles, err := s.fileMeta.Get(sessionID)
	if err != nil {
		return err
	}
	sessionFiles.Files[name] = meta
	return s.fileMeta.Put(sessionFiles)
}

// DeleteFile removes one file, its OCR companion and its metadata record
func (s *Store) DeleteFile(sessionID, filename string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return err
	}

	path := filepath.Join(s.sessionDir(sessionID), name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file %s: %w", name, models.ErrNotFound)
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	os.Remove(path + models.OCRSuffix)

	if err := s.fileMeta.DeleteFile(sessionID, name); err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("Failed to delete file metadata")
	}

	s.logger.Info().Str("session_id", sessionID).Str("file", name).Msg("File deleted")
	return nil
}

// DeleteAll removes the session's document directory and metadata table
func (s *Store) DeleteAll(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if err := os.RemoveAll(s.sessionDir(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session documents: %w", err)
	}
	return s.fileMeta.DeleteAll(sessionID)
}
