package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	sessions interfaces.SessionService
	logger   arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// UpdateTitleRequest is the body of POST /update_session_title
type UpdateTitleRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Title     string `json:"title" validate:"required"`
}

// Generate handles GET /generate_session requests
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"session_id": h.sessions.Generate(),
	})
}

// List handles GET /sessions requests
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	infos, err := h.sessions.List()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sessions")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": infos,
	})
}

// UpdateTitle handles PUT /update_session_title requests
func (h *SessionHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req UpdateTitleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	meta, err := h.sessions.UpdateTitle(req.SessionID, req.Title)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": meta.SessionID,
		"title":      meta.Title,
	})
}

// Delete handles DELETE /delete_session/{session_id} requests
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/delete_session/")
	if err := h.sessions.Delete(sessionID); err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to delete session")
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Session deleted")
}
