// File: internal/handlers/chat_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-saber/internal/dtos"
	"github.com/iyunix/go-saber/internal/render"
	"github.com/iyunix/go-saber/internal/services"
	"github.com/iyunix/go-saber/internal/services/chat"
)

type ChatHandler struct {
	ChatService *services.ChatService
	markdown    *render.Markdown
	logger      Logger
	now         func() time.Time
}

func NewChatHandler(cs *services.ChatService, markdown *render.Markdown, logger Logger) *ChatHandler {
	return &ChatHandler{
		ChatService: cs,
		markdown:    markdown,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleChatMessage runs one chat turn.
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ChatRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := dtos.Validate(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	result, err := h.ChatService.HandleTurn(r.Context(), chat.TurnRequest{
		UserID:         uid,
		Message:        req.Message,
		ConversationID: req.ConversationID,
		RawSettings:    req.Settings,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetHistory returns the caller's conversations bucketed by recency.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	history, err := h.ChatService.GetHistory(r.Context(), uid, h.now())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// GetConversation returns the ordered messages of one conversation.
// With ?format=html each message also carries its rendered HTML.
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	messages, err := h.ChatService.GetConversationMessages(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	withHTML := strings.EqualFold(r.URL.Query().Get("format"), "html")
	out := make([]dtos.MessageDTO, 0, len(messages))
	for _, m := range messages {
		dto := dtos.MessageDTO{Message: m}
		if withHTML {
			html, err := h.markdown.Render(m.Content)
			if err != nil {
				writeServiceError(w, r, h.logger, fmt.Errorf("render message %d: %w", m.ID, err))
				return
			}
			dto.HTML = html
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, dtos.ConversationMessagesDTO{Messages: out, ConversationID: id})
}

func (h *ChatHandler) NewConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, err := h.ChatService.CreateConversation(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (h *ChatHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.RenameRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if errs := dtos.Validate(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	title, err := h.ChatService.RenameConversation(r.Context(), uid, mux.Vars(r)["id"], req.Title)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.RenameResponseDTO{Success: true, Title: title})
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.ChatService.DeleteConversation(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted."})
}

func (h *ChatHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.ChatService.ClearAll(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ClearAllResponseDTO{
		Success: true,
		Message: "All your conversations were cleared.",
		Deleted: deleted,
	})
}

// Export downloads every conversation of the caller with its messages.
func (h *ChatHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	now := h.now()
	bundle, err := h.ChatService.Export(r.Context(), uid, now)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if bundle.TotalConversations > 0 {
		w.Header().Set("Content-Disposition", "attachment; filename="+services.ExportFilename(uid, now))
	}
	writeJSON(w, http.StatusOK, bundle)
}

// Stats is public: global counts only.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ChatService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
