package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/sermo/internal/models"
)

// DocumentStore manages the per-session corpus: uploaded files and
// scraped web pages stored on the filesystem, with companion metadata
// records. OCR companion files (*.ocr.txt) are hidden from listings and
// substituted as the text source for their image.
type DocumentStore interface {
	// HasDocuments reports whether the session has at least one corpus file
	HasDocuments(sessionID string) (bool, error)

	// List returns display metadata for the session's files, newest first
	List(sessionID string) ([]*models.DocumentMeta, error)

	// ReadAllText extracts plain text from every corpus file. Files whose
	// extraction fails are skipped, not fatal.
	ReadAllText(ctx context.Context, sessionID string) ([]*models.DocumentText, error)

	// SaveUpload persists one uploaded file, enforcing the size cap
	SaveUpload(sessionID, filename string, r io.Reader, size int64) (*models.DocumentMeta, error)

	// SaveScraped persists a scraped page with its origin metadata
	SaveScraped(sessionID, filename, content string, meta models.FileMetadata) error

	// DeleteFile removes one file and its metadata record
	DeleteFile(sessionID, filename string) error

	// DeleteAll removes the session's document directory and metadata
	DeleteAll(sessionID string) error
}

// TextExtractor converts one file format to plain text
type TextExtractor interface {
	// Extract returns the plain text content of the file at path
	Extract(ctx context.Context, path string) (string, error)

	// CanExtract reports whether the extractor handles this filename
	CanExtract(filename string) bool
}
