// Package handler contains the HTTP glue: request parsing, response
// shaping, and the mapping from domain errors to status codes. No business
// rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/gifboard/internal/apperror"
)

// ErrorResponse is the standard error shape for every endpoint:
//
//	{"error": "validation_error", "message": "photo name is required"}
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error to its status code.
//
// The mapping follows the API's established contract: conflicts and repeat
// votes are user-correctable input problems and answer 400 like validation
// failures do, 401 is reserved for "no credential presented", 403 for "bad
// credential", and store outages answer 503 with a fixed message — the
// underlying I/O detail (paths, syscall errors) never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	errorType := "internal_error"
	message := appErr.Message

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, errorType = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrConflict):
		status, errorType = http.StatusBadRequest, "conflict"
	case errors.Is(err, apperror.ErrAlreadyVoted):
		status, errorType = http.StatusBadRequest, "already_voted"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		status, errorType = http.StatusBadRequest, "invalid_credentials"
	case errors.Is(err, apperror.ErrCodeExpired):
		status, errorType = http.StatusBadRequest, "code_expired"
	case errors.Is(err, apperror.ErrCodeMismatch):
		status, errorType = http.StatusBadRequest, "code_mismatch"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, errorType = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status, errorType = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		status, errorType = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrUnavailable):
		status, errorType = http.StatusServiceUnavailable, "store_unavailable"
		message = "storage temporarily unavailable, retry later"
	default:
		message = "An internal error occurred"
	}

	writeJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}
