package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/llm"
)

// Shared response DTOs and the centralized error mapping.

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the generic success envelope for operations that return
// no resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError maps business-layer errors onto HTTP status codes. The
// detailed error is logged; validation and upstream API messages are passed
// through because they are already user-facing.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	var apiErr *llm.APIError
	switch {
	case errors.As(err, &apiErr):
		// The completion endpoint failed; relay its own error text.
		statusCode = http.StatusBadGateway
		message = apiErr.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrParse):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
