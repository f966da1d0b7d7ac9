// -----------------------------------------------------------------------
// Scraper Service - Fetch web pages into a session's corpus as markdown
// -----------------------------------------------------------------------

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
	"golang.org/x/time/rate"
)

var schemePrefix = regexp.MustCompile(`^https?://`)

// Service implements the ScraperService interface. Pages are fetched with
// a shared rate limiter, stripped of script/style content and converted to
// markdown before being saved into the session's corpus.
type Service struct {
	documents interfaces.DocumentStore
	client    *http.Client
	converter *md.Converter
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ScraperService = (*Service)(nil)

// NewService creates a scraper service from configuration
func NewService(cfg *common.ScraperConfig, documents interfaces.DocumentStore, logger arbor.ILogger) *Service {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}

	converter := md.NewConverter("", true, nil)

	return &Service{
		documents: documents,
		client: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		converter: converter,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodySize,
		logger:    logger,
	}
}

// AddWebLinks fetches each URL into the session's corpus. Failures are
// per-URL: one bad link never aborts the batch.
func (s *Service) AddWebLinks(ctx context.Context, sessionID string, urls []string) ([]interfaces.ScrapeResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID is required: %w", models.ErrInvalidInput)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs provided: %w", models.ErrInvalidInput)
	}

	results := make([]interfaces.ScrapeResult, 0, len(urls))
	for _, raw := range urls {
		result := interfaces.ScrapeResult{URL: raw}

		filename, err := s.scrapeOne(ctx, sessionID, raw)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", raw).Msg("Failed to scrape URL")
			result.Error = err.Error()
		} else {
			result.Filename = filename
		}
		results = append(results, result)
	}
	return results, nil
}

// scrapeOne fetches, converts and stores a single page
func (s *Service) scrapeOne(ctx context.Context, sessionID, raw string) (string, error) {
	// Scheme-less URLs default to https
	target := strings.TrimSpace(raw)
	if !schemePrefix.MatchString(target) {
		target = "https://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: %w", raw, models.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if s.maxBody > 0 {
		body = io.LimitReader(resp.Body, s.maxBody)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	markdown := s.converter.Convert(doc.Selection)
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("page yielded no content")
	}

	now := time.Now()
	filename := fmt.Sprintf("%s_%s.md", parsed.Host, now.Format("20060102150405"))
	content := fmt.Sprintf("URL: %s\n\n%s", target, markdown)

	err = s.documents.SaveScraped(sessionID, filename, content, models.FileMetadata{
		Origin:    models.OriginWebpage,
		SourceURL: target,
		ScrapedAt: now,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("url", target).
		Str("file", filename).
		Int("content_length", len(markdown)).
		Msg("Web page scraped")

	return filename, nil
}
