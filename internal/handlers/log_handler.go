package handlers

import (
	"net/http"
	"strings"

	"github.com/iyunix/go-saber/internal/dtos"
)

// LogHandler receives log entries reported by the browser.
type LogHandler struct {
	logger Logger
}

func NewLogHandler(logger Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// LogFrontendEvent handles incoming log requests from the frontend.
func (h *LogHandler) LogFrontendEvent(w http.ResponseWriter, r *http.Request) {
	var payload dtos.ClientLogDTO
	if !decodeJSON(w, r, &payload) {
		return
	}
	payload.Level = strings.ToLower(payload.Level)
	if errs := dtos.Validate(payload); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	kv := []interface{}{"source", "client", "context", payload.Context}
	switch payload.Level {
	case "error":
		h.logger.Error(payload.Message, kv...)
	case "warn":
		h.logger.Warn(payload.Message, kv...)
	case "debug":
		h.logger.Debug(payload.Message, kv...)
	default:
		h.logger.Info(payload.Message, kv...)
	}

	w.WriteHeader(http.StatusNoContent)
}
