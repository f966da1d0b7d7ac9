package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.True(t, IsRateLimitError(errors.New("Error 429, Message: quota exceeded")))
	assert.True(t, IsRateLimitError(errors.New("Status: RESOURCE_EXHAUSTED")))
}

func TestExtractRetryDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(nil))
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("no delay here")))

	err := errors.New("Error 429, Message: quota exceeded. Please retry in 45.5s., Status: RESOURCE_EXHAUSTED")
	assert.Equal(t, 45500*time.Millisecond, ExtractRetryDelay(err))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	// First attempt uses the initial backoff
	assert.Equal(t, cfg.InitialBackoff, cfg.CalculateBackoff(0, 0))

	// API-provided delay plus buffer wins over the default
	assert.Equal(t, 15*time.Second, cfg.CalculateBackoff(0, 10*time.Second))

	// Repeated attempts never exceed the cap
	assert.Equal(t, cfg.MaxBackoff, cfg.CalculateBackoff(10, 0))
}
