package interfaces

import (
	"context"
)

// AnswerRequest carries everything one model call needs
type AnswerRequest struct {
	// The user's question
	Question string

	// Formatted conversation history ("Human: ...\nAI: ..."), may be empty
	History string

	// Retrieved corpus context, empty for general-knowledge answering
	Context string

	// Prior alternatives for this question when regenerating, nil otherwise
	PriorAttempts []string
}

// AnswerEngine produces one assistant answer per call. Implementations
// bound the call with the configured answer timeout and map provider
// failures to models.ErrUpstreamTimeout / models.ErrUpstreamError.
type AnswerEngine interface {
	Answer(ctx context.Context, req *AnswerRequest) (string, error)
}
