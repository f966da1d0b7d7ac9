package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/sermo/internal/models"
)

// validate checks request DTOs against their struct tags
var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// DecodeJSON decodes and validates a request body DTO. Writes a 400
// response and returns false when the body is malformed or invalid.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// ErrorStatus maps service sentinel errors to HTTP status codes
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidIndex),
		errors.Is(err, models.ErrLimitExceeded),
		errors.Is(err, models.ErrNoCorpus):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrUpstreamError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError maps a service error to its HTTP status. Internal
// causes are not leaked to clients for 5xx responses.
func WriteServiceError(w http.ResponseWriter, err error) error {
	status := ErrorStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		switch {
		case errors.Is(err, models.ErrUpstreamTimeout):
			message = "Request timed out. Please try again with a shorter message."
		case errors.Is(err, models.ErrUpstreamError):
			message = "Failed to generate response. Please check your documents and try again."
		default:
			message = "Internal server error"
		}
	}
	return WriteError(w, status, message)
}
