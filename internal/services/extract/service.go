// -----------------------------------------------------------------------
// Text Extraction Service - Convert corpus files to plain text
// -----------------------------------------------------------------------

package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// Service routes files to the extractor that handles their format
type Service struct {
	extractors []interfaces.TextExtractor
	logger     arbor.ILogger
}

// NewService creates an extraction service covering every supported format
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		extractors: []interfaces.TextExtractor{
			NewPlainExtractor(),
			NewMarkdownExtractor(),
			NewHTMLExtractor(),
			NewPDFExtractor(logger),
		},
		logger: logger,
	}
}

// CanExtract reports whether any extractor handles this filename
func (s *Service) CanExtract(filename string) bool {
	for _, e := range s.extractors {
		if e.CanExtract(filename) {
			return true
		}
	}
	return false
}

// Extract converts one file to plain text
func (s *Service) Extract(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)
	for _, e := range s.extractors {
		if e.CanExtract(name) {
			return e.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("unsupported file format: %s", strings.ToLower(filepath.Ext(name)))
}
