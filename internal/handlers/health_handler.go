package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/common"
	"github.com/ternarybob/sermo/internal/interfaces"
)

// HealthHandler handles service health HTTP requests
type HealthHandler struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(llm interfaces.LLMService, logger arbor.ILogger) *HealthHandler {
	return &HealthHandler{
		llm:    llm,
		logger: logger,
	}
}

// Health handles GET /health requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	response := map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
	}

	if err := h.llm.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("LLM health check failed")
		response["status"] = "degraded"
		response["llm"] = "unavailable"
	} else {
		response["llm"] = "available"
	}

	WriteJSON(w, http.StatusOK, response)
}
