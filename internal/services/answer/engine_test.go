package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// fakeLLM captures the last chat request and returns a canned response
type fakeLLM struct {
	response string
	err      error
	delay    time.Duration
	messages []interfaces.Message
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.messages = messages
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (f *fakeLLM) Close() error                          { return nil }

func TestEngine_Answer(t *testing.T) {
	logger := arbor.NewLogger()

	t.Run("grounded question uses the document-aware system prompt", func(t *testing.T) {
		llm := &fakeLLM{response: "grounded answer"}
		engine := NewEngine(llm, time.Second, logger)

		text, err := engine.Answer(context.Background(), &interfaces.AnswerRequest{
			Question: "What changed?",
			History:  "Human: hi\nAI: hello\n",
			Context:  "Release notes say version two is out.",
		})

		require.NoError(t, err)
		assert.Equal(t, "grounded answer", text)

		require.Len(t, llm.messages, 2)
		assert.Equal(t, "system", llm.messages[0].Role)
		assert.Contains(t, llm.messages[0].Content, "DOCUMENT-BASED ANSWERING")

		user := llm.messages[1].Content
		assert.True(t, strings.HasPrefix(user, "Chat History:\nHuman: hi\nAI: hello\n"))
		assert.Contains(t, user, "Context:\nRelease notes say version two is out.")
		assert.True(t, strings.HasSuffix(user, "Question: What changed?"))
	})

	t.Run("no context selects general knowledge answering", func(t *testing.T) {
		llm := &fakeLLM{response: "general answer"}
		engine := NewEngine(llm, time.Second, logger)

		_, err := engine.Answer(context.Background(), &interfaces.AnswerRequest{
			Question: "What is the capital of France?",
		})

		require.NoError(t, err)
		assert.Contains(t, llm.messages[0].Content, "no documents were provided")
		assert.NotContains(t, llm.messages[1].Content, "Context:")
	})

	t.Run("prior attempts wrap the question in regeneration instructions", func(t *testing.T) {
		llm := &fakeLLM{response: "another take"}
		engine := NewEngine(llm, time.Second, logger)

		_, err := engine.Answer(context.Background(), &interfaces.AnswerRequest{
			Question:      "What changed?",
			Context:       "notes",
			PriorAttempts: []string{"first", "second"},
		})

		require.NoError(t, err)
		user := llm.messages[1].Content
		assert.Contains(t, user, "Please provide an alternative response")
		assert.Contains(t, user, "Previous responses given: 2")
		assert.Contains(t, user, "Original Question: What changed?")
	})

	t.Run("slow model call times out", func(t *testing.T) {
		llm := &fakeLLM{response: "late", delay: 500 * time.Millisecond}
		engine := NewEngine(llm, 30*time.Millisecond, logger)

		_, err := engine.Answer(context.Background(), &interfaces.AnswerRequest{Question: "hi"})

		assert.ErrorIs(t, err, models.ErrUpstreamTimeout)
	})

	t.Run("provider failure surfaces as upstream error", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("429 rate limited")}
		engine := NewEngine(llm, time.Second, logger)

		_, err := engine.Answer(context.Background(), &interfaces.AnswerRequest{Question: "hi"})

		assert.ErrorIs(t, err, models.ErrUpstreamError)
		assert.NotContains(t, err.Error(), "429", "provider detail stays in the log")
	})
}
