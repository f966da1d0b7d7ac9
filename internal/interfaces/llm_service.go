package interfaces

import (
	"context"
)

// LLMMode reports how a provider runs
type LLMMode string

const (
	// LLMModeCloud indicates a hosted provider API
	LLMModeCloud LLMMode = "cloud"
)

// Message is one entry of a chat conversation sent to a provider
type Message struct {
	// Role identifies the sender: "user", "assistant", or "system"
	Role string

	// Content is the message text
	Content string
}

// LLMService is the provider contract for embeddings and chat
// completions. The concrete provider (Gemini or Claude) is selected by
// configuration; all callers go through this interface.
type LLMService interface {
	// Embed generates an embedding vector for text. Vectors feed the
	// per-session retrieval index built before answer generation.
	// Dimensionality is fixed by configuration so all vectors in one
	// index are comparable.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion from the conversation history, given
	// in chronological order including any system prompt.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck probes provider connectivity and authentication.
	HealthCheck(ctx context.Context) error

	// GetMode returns the provider's operational mode.
	GetMode() LLMMode

	// Close releases provider resources.
	Close() error
}
