package handlers

import (
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

type sessionStub struct {
	generated string
	infos     []*interfaces.SessionInfo
	listErr   error
	updated   *models.SessionMetadata
	updateErr error
	deleted   []string
	deleteErr error
}

func (s *sessionStub) Generate() string { return s.generated }

func (s *sessionStub) List() ([]*interfaces.SessionInfo, error) { return s.infos, s.listErr }

func (s *sessionStub) UpdateTitle(sessionID, title string) (*models.SessionMetadata, error) {
	return s.updated, s.updateErr
}

func (s *sessionStub) Delete(sessionID string) error {
	s.deleted = append(s.deleted, sessionID)
	return s.deleteErr
}

func TestSessionHandler_Generate(t *testing.T) {
	h := NewSessionHandler(&sessionStub{generated: "ses_abc123"}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/generate_session", nil)
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ses_abc123", body["session_id"])
}

func TestSessionHandler_List(t *testing.T) {
	h := NewSessionHandler(&sessionStub{infos: []*interfaces.SessionInfo{
		{SessionID: "ses_1", Title: "First chat", LastUpdated: "2026-08-30T12:00:00Z"},
		{SessionID: "ses_2", Title: "Second chat"},
	}}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	sessions, ok := body["sessions"].([]interface{})
	require.True(t, ok)
	require.Len(t, sessions, 2)
	first := sessions[0].(map[string]interface{})
	assert.Equal(t, "ses_1", first["session_id"])
	assert.Equal(t, "First chat", first["title"])
}

func TestSessionHandler_UpdateTitle(t *testing.T) {
	putTitle := func(t *testing.T, h *SessionHandler, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPut, "/update_session_title", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.UpdateTitle(rec, req)
		return rec
	}

	t.Run("returns the saved metadata", func(t *testing.T) {
		stub := &sessionStub{updated: &models.SessionMetadata{SessionID: "ses_1", Title: "Renamed"}}
		h := NewSessionHandler(stub, arbor.NewLogger())

		rec := putTitle(t, h, `{"session_id":"ses_1","title":"Renamed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Renamed", body["title"])
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		h := NewSessionHandler(&sessionStub{}, arbor.NewLogger())

		rec := putTitle(t, h, `{"session_id":"ses_1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects POST", func(t *testing.T) {
		h := NewSessionHandler(&sessionStub{}, arbor.NewLogger())

		rec := postJSON(t, h.UpdateTitle, "/update_session_title",
			`{"session_id":"ses_1","title":"Renamed"}`)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSessionHandler_Delete(t *testing.T) {
	t.Run("deletes by path segment", func(t *testing.T) {
		stub := &sessionStub{}
		h := NewSessionHandler(stub, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodDelete, "/delete_session/ses_1", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"ses_1"}, stub.deleted)
	})

	t.Run("rejects non-DELETE", func(t *testing.T) {
		h := NewSessionHandler(&sessionStub{}, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodGet, "/delete_session/ses_1", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
