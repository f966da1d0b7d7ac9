package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	conversation interfaces.ConversationService
	logger       arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversation interfaces.ConversationService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		conversation: conversation,
		logger:       logger,
	}
}

// ChatRequest is the body of POST /chat and POST /regenerate
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// SelectAlternativeRequest is the body of POST /select_alternative
type SelectAlternativeRequest struct {
	SessionID        string `json:"session_id" validate:"required"`
	MessageID        string `json:"message_id" validate:"required"`
	AlternativeIndex *int   `json:"alternative_index" validate:"required"`
}

// UpdateHistoryRequest is the body of POST /update_chat_history
type UpdateHistoryRequest struct {
	SessionID   string           `json:"session_id" validate:"required"`
	ChatHistory []models.Message `json:"chat_history"`
}

// Chat handles POST /chat requests
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.conversation.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("Chat turn failed")
		WriteServiceError(w, err)
		return
	}

	// An empty corpus is guidance, not an error status
	if result.NoCorpus {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"error":      result.Response,
			"response":   nil,
			"session_id": req.SessionID,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"response":   result.Response,
		"session_id": req.SessionID,
	})
}

// Regenerate handles POST /regenerate requests
func (h *ChatHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.conversation.Regenerate(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("Regeneration failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"response":           result.Response,
		"session_id":         req.SessionID,
		"alternatives_count": result.AlternativesCount,
		"regeneration_count": result.RegenerationCount,
	})
}

// SelectAlternative handles POST /select_alternative requests
func (h *ChatHandler) SelectAlternative(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SelectAlternativeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.conversation.SelectAlternative(req.SessionID, req.MessageID, *req.AlternativeIndex)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", req.SessionID).Str("message_id", req.MessageID).Msg("Alternative selection failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      msg,
		"session_id":   req.SessionID,
		"active_index": msg.ActiveIndex,
	})
}

// History handles GET /chat_history/{session_id} requests
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/chat_history/")
	messages, err := h.conversation.History(sessionID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"chat_history": messages,
		"session_id":   sessionID,
	})
}

// UpdateHistory handles POST /update_chat_history requests
func (h *ChatHandler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req UpdateHistoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.conversation.ReplaceHistory(req.SessionID, req.ChatHistory); err != nil {
		h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("History replacement failed")
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Chat history updated")
}
