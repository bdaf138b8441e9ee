package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string, details ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
		Details: details,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type.
// Dependency failures are logged with their cause; the caller only sees a
// generic message.
func HandleError(w http.ResponseWriter, err error) {
	var validationErr *mediastore.ValidationError
	if errors.As(err, &validationErr) {
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusBadRequest, CodeValidationFailed, "File validation failed", validationErr.Messages()...)
		return
	}

	if errors.Is(err, mediastore.ErrUnauthorized) {
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Missing, invalid or expired token")
		return
	}

	if errors.Is(err, mediastore.ErrNotFound) {
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusNotFound, CodeNotFound, "File not found")
		return
	}

	// A dependency may report bad input of its own; that is still our failure.
	if errors.Is(err, mediastore.ErrDependency) {
		slog.Error("dependency error", "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
		return
	}

	if errors.Is(err, mediastore.ErrInvalidInput) {
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request")
		return
	}

	slog.Error("request error", "error", err)
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
