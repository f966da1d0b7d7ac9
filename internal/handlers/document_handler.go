package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// DocumentHandler handles corpus file HTTP requests
type DocumentHandler struct {
	documents interfaces.DocumentStore
	scraper   interfaces.ScraperService
	logger    arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents interfaces.DocumentStore, scraper interfaces.ScraperService, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		scraper:   scraper,
		logger:    logger,
	}
}

// WebLinksRequest is the body of POST /add_web_links
type WebLinksRequest struct {
	SessionID string   `json:"session_id" validate:"required"`
	URLs      []string `json:"urls" validate:"required,min=1"`
}

// Upload handles POST /upload multipart requests. Each file succeeds or
// fails independently.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// 32MB in-memory threshold; larger parts spill to disk
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		WriteError(w, http.StatusBadRequest, "No files provided")
		return
	}

	var uploaded []string
	var failed []map[string]string
	for _, header := range files {
		if header.Filename == "" {
			failed = append(failed, map[string]string{"filename": "", "error": "Unnamed file"})
			continue
		}

		f, err := header.Open()
		if err != nil {
			failed = append(failed, map[string]string{"filename": header.Filename, "error": "Failed to read file"})
			continue
		}

		meta, err := h.documents.SaveUpload(sessionID, header.Filename, f, header.Size)
		f.Close()
		if err != nil {
			h.logger.Warn().Err(err).Str("file", header.Filename).Msg("Upload rejected")
			failed = append(failed, map[string]string{"filename": header.Filename, "error": err.Error()})
			continue
		}
		uploaded = append(uploaded, meta.Name)
	}

	status := http.StatusOK
	if len(uploaded) == 0 && len(failed) > 0 {
		status = http.StatusBadRequest
	}
	WriteJSON(w, status, map[string]interface{}{
		"uploaded_files": uploaded,
		"failed_files":   failed,
		"session_id":     sessionID,
	})
}

// List handles GET /uploaded_files/{session_id} requests
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/uploaded_files/")
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	metas, err := h.documents.List(sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to list files")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files":      metas,
		"session_id": sessionID,
	})
}

// Delete handles DELETE /delete_file/{session_id}/{filename} requests
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/delete_file/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		WriteError(w, http.StatusBadRequest, "Session ID and filename are required")
		return
	}

	if err := h.documents.DeleteFile(parts[0], parts[1]); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "File deleted")
}

// AddWebLinks handles POST /add_web_links requests
func (h *DocumentHandler) AddWebLinks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req WebLinksRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	results, err := h.scraper.AddWebLinks(r.Context(), req.SessionID, req.URLs)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	var scraped []interfaces.ScrapeResult
	var failedURLs []string
	for _, res := range results {
		if res.Error != "" {
			failedURLs = append(failedURLs, res.URL)
		} else {
			scraped = append(scraped, res)
		}
	}

	response := map[string]interface{}{
		"success": len(scraped) > 0,
	}
	if len(scraped) > 0 {
		response["scraped_urls"] = scraped
	}
	if len(failedURLs) > 0 {
		response["failed_urls"] = failedURLs
	}
	WriteJSON(w, http.StatusOK, response)
}
