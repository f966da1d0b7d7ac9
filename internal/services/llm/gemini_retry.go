package llm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GeminiRetryConfig controls backoff for Gemini rate-limit errors. The
// defaults track Gemini's per-minute quota window: the first wait covers
// most of a window reset, later waits grow up to the cap.
type GeminiRetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// NewDefaultRetryConfig returns the backoff settings used for embedding
// calls, where corpus-sized batches routinely exhaust the quota.
func NewDefaultRetryConfig() *GeminiRetryConfig {
	return &GeminiRetryConfig{
		MaxRetries:        5,
		InitialBackoff:    45 * time.Second,
		MaxBackoff:        90 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// IsRateLimitError reports whether err is a Gemini quota/rate-limit
// rejection rather than a hard failure.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"429", "RESOURCE_EXHAUSTED", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Gemini 429 responses embed a suggested wait, e.g.
// "Please retry in 45.387061394s" or "retryDelay: 45s".
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested wait out of a rate-limit
// error, or 0 when the message carries none.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	m := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(m[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff returns the wait before the given retry attempt. An
// API-suggested delay (plus a small buffer) overrides InitialBackoff as
// the base; the multiplier compounds per attempt and the result is capped
// at MaxBackoff.
func (c *GeminiRetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay + 5*time.Second
	}

	scale := 1.0
	for i := 0; i < attempt; i++ {
		scale *= c.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * scale)
	if backoff > c.MaxBackoff {
		return c.MaxBackoff
	}
	return backoff
}
