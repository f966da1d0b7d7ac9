package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PlainExtractor handles files that are already plain text
type PlainExtractor struct{}

// NewPlainExtractor creates a plain text extractor
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// CanExtract reports whether the file is plain text
func (e *PlainExtractor) CanExtract(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".txt"
}

// Extract reads the file content as-is
func (e *PlainExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}
