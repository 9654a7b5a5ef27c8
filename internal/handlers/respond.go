// File: internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iyunix/go-saber/internal/dtos"
	"github.com/iyunix/go-saber/internal/middleware"
	"github.com/iyunix/go-saber/internal/services/chat"
)

const maxBodyBytes = 1 << 20

// Logger is the logging interface used by the handlers.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationErrors(w http.ResponseWriter, errs []dtos.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "Validation failed.",
		"errors": errs,
	})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, "Invalid request body.", http.StatusBadRequest)
		return false
	}
	return true
}

// writeServiceError maps chat errors onto HTTP statuses. Internal detail
// is logged and never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger Logger, err error) {
	var chatErr *chat.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chat.ErrTypeValidation:
			writeError(w, chatErr.Message, http.StatusBadRequest)
			return
		case chat.ErrTypeNotFound:
			writeError(w, "Conversation not found.", http.StatusNotFound)
			return
		case chat.ErrTypeGeneration:
			logger.Error("generation failed", "request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
			writeError(w, "The assistant could not answer right now. Please try again.", http.StatusInternalServerError)
			return
		}
	}
	logger.Error("request failed", "request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
	writeError(w, "An internal server error occurred.", http.StatusInternalServerError)
}

// userID returns the authenticated caller. Routes using it sit behind
// the JWT middleware.
func userID(r *http.Request) (uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
