package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// conversationStub returns canned results per method
type conversationStub struct {
	chatResult  *interfaces.ChatResult
	chatErr     error
	regenResult *interfaces.RegenerateResult
	regenErr    error
	selected    *models.Message
	selectErr   error
	history     []models.Message
	replaced    []models.Message
}

func (c *conversationStub) Chat(ctx context.Context, sessionID, input string) (*interfaces.ChatResult, error) {
	return c.chatResult, c.chatErr
}

func (c *conversationStub) Regenerate(ctx context.Context, sessionID, input string) (*interfaces.RegenerateResult, error) {
	return c.regenResult, c.regenErr
}

func (c *conversationStub) SelectAlternative(sessionID, messageID string, index int) (*models.Message, error) {
	return c.selected, c.selectErr
}

func (c *conversationStub) History(sessionID string) ([]models.Message, error) {
	return c.history, nil
}

func (c *conversationStub) ReplaceHistory(sessionID string, messages []models.Message) error {
	c.replaced = messages
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChatHandler_Chat(t *testing.T) {
	t.Run("returns the answer", func(t *testing.T) {
		stub := &conversationStub{chatResult: &interfaces.ChatResult{Response: "An answer."}}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Chat, "/chat", `{"session_id":"ses_1","message":"Question?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "An answer.", body["response"])
		assert.Equal(t, "ses_1", body["session_id"])
	})

	t.Run("empty corpus answers 200 with guidance", func(t *testing.T) {
		stub := &conversationStub{chatResult: &interfaces.ChatResult{
			Response: "Please upload at least one document or add web links before chatting",
			NoCorpus: true,
		}}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Chat, "/chat", `{"session_id":"ses_1","message":"hi"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Contains(t, body["error"], "upload at least one document")
		assert.Nil(t, body["response"])
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		h := NewChatHandler(&conversationStub{}, arbor.NewLogger())

		rec := postJSON(t, h.Chat, "/chat", `{"session_id":"ses_1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upstream timeout maps to 504 with a generic message", func(t *testing.T) {
		stub := &conversationStub{chatErr: models.ErrUpstreamTimeout}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Chat, "/chat", `{"session_id":"ses_1","message":"hi"}`)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Request timed out. Please try again with a shorter message.", body["error"])
	})

	t.Run("provider failure maps to 502 without internal detail", func(t *testing.T) {
		stub := &conversationStub{chatErr: models.ErrUpstreamError}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Chat, "/chat", `{"session_id":"ses_1","message":"hi"}`)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Failed to generate response. Please check your documents and try again.", body["error"])
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		h := NewChatHandler(&conversationStub{}, arbor.NewLogger())
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		rec := httptest.NewRecorder()

		h.Chat(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestChatHandler_Regenerate(t *testing.T) {
	t.Run("returns alternative bookkeeping", func(t *testing.T) {
		stub := &conversationStub{regenResult: &interfaces.RegenerateResult{
			Response:          "Another take.",
			AlternativesCount: 2,
			RegenerationCount: 1,
		}}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Regenerate, "/regenerate", `{"session_id":"ses_1","message":"Question?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Another take.", body["response"])
		assert.Equal(t, float64(2), body["alternatives_count"])
		assert.Equal(t, float64(1), body["regeneration_count"])
	})

	t.Run("regeneration cap maps to 400", func(t *testing.T) {
		stub := &conversationStub{regenErr: models.ErrLimitExceeded}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Regenerate, "/regenerate", `{"session_id":"ses_1","message":"Question?"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty corpus maps to 400", func(t *testing.T) {
		stub := &conversationStub{regenErr: models.ErrNoCorpus}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.Regenerate, "/regenerate", `{"session_id":"ses_1","message":"Question?"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_SelectAlternative(t *testing.T) {
	t.Run("index zero passes validation", func(t *testing.T) {
		msg := models.NewAIMessage("msg_2", "first")
		stub := &conversationStub{selected: &msg}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.SelectAlternative, "/select_alternative",
			`{"session_id":"ses_1","message_id":"msg_2","alternative_index":0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(0), body["active_index"])
	})

	t.Run("missing index fails validation", func(t *testing.T) {
		h := NewChatHandler(&conversationStub{}, arbor.NewLogger())

		rec := postJSON(t, h.SelectAlternative, "/select_alternative",
			`{"session_id":"ses_1","message_id":"msg_2"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out-of-range index maps to 400", func(t *testing.T) {
		stub := &conversationStub{selectErr: models.ErrInvalidIndex}
		h := NewChatHandler(stub, arbor.NewLogger())

		rec := postJSON(t, h.SelectAlternative, "/select_alternative",
			`{"session_id":"ses_1","message_id":"msg_2","alternative_index":9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_History(t *testing.T) {
	stub := &conversationStub{history: []models.Message{
		models.NewHumanMessage("msg_1", "Question"),
	}}
	h := NewChatHandler(stub, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/chat_history/ses_1", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ses_1", body["session_id"])
	history, ok := body["chat_history"].([]interface{})
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestChatHandler_UpdateHistory(t *testing.T) {
	stub := &conversationStub{}
	h := NewChatHandler(stub, arbor.NewLogger())

	rec := postJSON(t, h.UpdateHistory, "/update_chat_history",
		`{"session_id":"ses_1","chat_history":[{"id":"msg_1","type":"human","content":"hi"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.replaced, 1)
	assert.Equal(t, "hi", stub.replaced[0].Content)
}
