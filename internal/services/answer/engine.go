// -----------------------------------------------------------------------
// Answer Engine - One model call per assistant answer, time-bounded
// -----------------------------------------------------------------------

package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// Engine implements the AnswerEngine interface over an LLM service.
// Each call is bounded by the configured wall-clock timeout; a call that
// exceeds it fails as a timeout and is never retried.
type Engine struct {
	llm     interfaces.LLMService
	timeout time.Duration
	logger  arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.AnswerEngine = (*Engine)(nil)

// NewEngine creates an answer engine with the configured timeout
func NewEngine(llm interfaces.LLMService, timeout time.Duration, logger arbor.ILogger) *Engine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Engine{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
	}
}

// Answer generates one assistant response. Grounded answering is selected
// by the presence of retrieval context; regeneration by prior attempts.
func (e *Engine) Answer(ctx context.Context, req *interfaces.AnswerRequest) (string, error) {
	system := generalSystemPrompt
	if req.Context != "" {
		system = groundedSystemPrompt
	}

	question := req.Question
	if len(req.PriorAttempts) > 0 {
		question = buildRegenerationQuestion(req.Question, len(req.PriorAttempts))
	}

	messages := []interfaces.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: buildUserPrompt(question, req.History, req.Context)},
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		text, err := e.llm.Chat(callCtx, messages)
		done <- result{text: text, err: err}
	}()

	select {
	case <-callCtx.Done():
		e.logger.Warn().
			Dur("timeout", e.timeout).
			Int("question_length", len(req.Question)).
			Msg("Answer generation timed out")
		return "", fmt.Errorf("answer not produced within %s: %w", e.timeout, models.ErrUpstreamTimeout)

	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return "", fmt.Errorf("answer not produced within %s: %w", e.timeout, models.ErrUpstreamTimeout)
			}
			// Detailed cause stays in the log; callers get the sentinel
			e.logger.Error().Err(res.err).Msg("Model call failed")
			return "", models.ErrUpstreamError
		}
		e.logger.Debug().
			Dur("duration", time.Since(start)).
			Int("response_length", len(res.text)).
			Bool("grounded", req.Context != "").
			Msg("Answer generated")
		return res.text, nil
	}
}
