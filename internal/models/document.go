package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document origins
const (
	OriginUpload  = "upload"
	OriginWebpage = "webpage"
)

// OCRSuffix marks companion text artifacts produced by external OCR for
// image and scanned-PDF documents. Companions live alongside the source
// file but are hidden from user-facing listings.
const OCRSuffix = ".ocr.txt"

// FileMetadata records origin information for one stored document
type FileMetadata struct {
	Origin    string    `json:"type"` // "upload" or "webpage"
	SourceURL string    `json:"original_url,omitempty"`
	ScrapedAt time.Time `json:"scraped_at,omitempty"`
}

// SessionFiles is the per-session file-metadata table, keyed by file name
type SessionFiles struct {
	SessionID string                  `json:"session_id"`
	Files     map[string]FileMetadata `json:"files"`
}

// DocumentMeta describes one document in a session listing
type DocumentMeta struct {
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	SourceURL    string    `json:"original_url,omitempty"`
	Origin       string    `json:"type"`
	Size         int64     `json:"size"`
	HumanSize    string    `json:"human_size"`
	Modified     time.Time `json:"modified"`
	Extension    string    `json:"extension"`
	IsImage      bool      `json:"is_image"`
	OCRProcessed bool      `json:"ocr_processed"`
}

// DocumentText pairs a document name with its extracted text content
type DocumentText struct {
	Name string
	Text string
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".bmp": true, ".webp": true,
}

// IsImageFile reports whether the file name has an image extension
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// HumanReadableSize formats a byte count for display
func HumanReadableSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}
