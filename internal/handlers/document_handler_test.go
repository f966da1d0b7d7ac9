package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
	"github.com/ternarybob/sermo/internal/models"
)

type documentsStub struct {
	saveErr    error
	saved      []string
	metas      []*models.DocumentMeta
	deleted    [][2]string
	deleteErr  error
	deletedAll []string
}

func (d *documentsStub) HasDocuments(sessionID string) (bool, error) { return len(d.saved) > 0, nil }

func (d *documentsStub) List(sessionID string) ([]*models.DocumentMeta, error) {
	return d.metas, nil
}

func (d *documentsStub) ReadAllText(ctx context.Context, sessionID string) ([]*models.DocumentText, error) {
	return nil, nil
}

func (d *documentsStub) SaveUpload(sessionID, filename string, r io.Reader, size int64) (*models.DocumentMeta, error) {
	if d.saveErr != nil {
		return nil, d.saveErr
	}
	d.saved = append(d.saved, filename)
	return &models.DocumentMeta{Name: filename}, nil
}

func (d *documentsStub) SaveScraped(sessionID, filename, content string, meta models.FileMetadata) error {
	return nil
}

func (d *documentsStub) DeleteFile(sessionID, filename string) error {
	if d.deleteErr != nil {
		return d.deleteErr
	}
	d.deleted = append(d.deleted, [2]string{sessionID, filename})
	return nil
}

func (d *documentsStub) DeleteAll(sessionID string) error {
	d.deletedAll = append(d.deletedAll, sessionID)
	return nil
}

type scraperStub struct {
	results []interfaces.ScrapeResult
	err     error
}

func (s *scraperStub) AddWebLinks(ctx context.Context, sessionID string, urls []string) ([]interfaces.ScrapeResult, error) {
	return s.results, s.err
}

func multipartUpload(t *testing.T, sessionID string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("session_id", sessionID))
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	t.Run("saves each file", func(t *testing.T) {
		docs := &documentsStub{}
		h := NewDocumentHandler(docs, &scraperStub{}, arbor.NewLogger())

		body, contentType := multipartUpload(t, "ses_1", map[string]string{
			"notes.txt": "some notes",
			"readme.md": "# readme",
		})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		uploaded, ok := out["uploaded_files"].([]interface{})
		require.True(t, ok)
		assert.Len(t, uploaded, 2)
		assert.ElementsMatch(t, []string{"notes.txt", "readme.md"}, docs.saved)
	})

	t.Run("all files failing returns 400", func(t *testing.T) {
		docs := &documentsStub{saveErr: models.ErrTooLarge}
		h := NewDocumentHandler(docs, &scraperStub{}, arbor.NewLogger())

		body, contentType := multipartUpload(t, "ses_1", map[string]string{"big.txt": "xxx"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		out := decodeBody(t, rec)
		failed, ok := out["failed_files"].([]interface{})
		require.True(t, ok)
		assert.Len(t, failed, 1)
	})

	t.Run("missing session rejected", func(t *testing.T) {
		h := NewDocumentHandler(&documentsStub{}, &scraperStub{}, arbor.NewLogger())

		body, contentType := multipartUpload(t, "", map[string]string{"notes.txt": "some notes"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDocumentHandler_List(t *testing.T) {
	docs := &documentsStub{metas: []*models.DocumentMeta{
		{Name: "notes.txt", DisplayName: "notes.txt", Origin: "upload"},
	}}
	h := NewDocumentHandler(docs, &scraperStub{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/uploaded_files/ses_1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	files, ok := out["files"].([]interface{})
	require.True(t, ok)
	assert.Len(t, files, 1)
	assert.Equal(t, "ses_1", out["session_id"])
}

func TestDocumentHandler_Delete(t *testing.T) {
	t.Run("splits session and filename from the path", func(t *testing.T) {
		docs := &documentsStub{}
		h := NewDocumentHandler(docs, &scraperStub{}, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodDelete, "/delete_file/ses_1/notes.txt", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, docs.deleted, 1)
		assert.Equal(t, [2]string{"ses_1", "notes.txt"}, docs.deleted[0])
	})

	t.Run("missing filename rejected", func(t *testing.T) {
		h := NewDocumentHandler(&documentsStub{}, &scraperStub{}, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodDelete, "/delete_file/ses_1", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown file maps to 404", func(t *testing.T) {
		docs := &documentsStub{deleteErr: models.ErrNotFound}
		h := NewDocumentHandler(docs, &scraperStub{}, arbor.NewLogger())

		req := httptest.NewRequest(http.MethodDelete, "/delete_file/ses_1/missing.txt", nil)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDocumentHandler_AddWebLinks(t *testing.T) {
	t.Run("splits scraped and failed URLs", func(t *testing.T) {
		scraper := &scraperStub{results: []interfaces.ScrapeResult{
			{URL: "https://example.com", Filename: "example_com.md"},
			{URL: "https://bad.example", Error: "HTTP 404"},
		}}
		h := NewDocumentHandler(&documentsStub{}, scraper, arbor.NewLogger())

		rec := postJSON(t, h.AddWebLinks, "/add_web_links",
			`{"session_id":"ses_1","urls":["https://example.com","https://bad.example"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, true, out["success"])
		scraped, ok := out["scraped_urls"].([]interface{})
		require.True(t, ok)
		assert.Len(t, scraped, 1)
		failed, ok := out["failed_urls"].([]interface{})
		require.True(t, ok)
		assert.Equal(t, "https://bad.example", failed[0])
	})

	t.Run("all failures report success false", func(t *testing.T) {
		scraper := &scraperStub{results: []interfaces.ScrapeResult{
			{URL: "https://bad.example", Error: "HTTP 404"},
		}}
		h := NewDocumentHandler(&documentsStub{}, scraper, arbor.NewLogger())

		rec := postJSON(t, h.AddWebLinks, "/add_web_links",
			`{"session_id":"ses_1","urls":["https://bad.example"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody(t, rec)
		assert.Equal(t, false, out["success"])
	})

	t.Run("empty urls fail validation", func(t *testing.T) {
		h := NewDocumentHandler(&documentsStub{}, &scraperStub{}, arbor.NewLogger())

		rec := postJSON(t, h.AddWebLinks, "/add_web_links", `{"session_id":"ses_1","urls":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
