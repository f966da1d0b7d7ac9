package interfaces

import (
	"context"
)

// ScrapeResult reports the outcome for one submitted URL
type ScrapeResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ScraperService fetches web pages into a session's corpus as markdown
// files. Failures are per-URL: one bad link never aborts the batch.
type ScraperService interface {
	AddWebLinks(ctx context.Context, sessionID string, urls []string) ([]ScrapeResult, error)
}
