package dtos

import (
	"encoding/json"

	"github.com/iyunix/go-saber/internal/domain"
)

// ChatRequestDTO is the body of POST /api/chat. Settings is merged field
// by field over the defaults, so it is kept raw.
type ChatRequestDTO struct {
	Message        string          `json:"message"`
	ConversationID string          `json:"conversationId" validate:"omitempty,uuid"`
	Settings       json.RawMessage `json:"settings,omitempty"`
}

type RenameRequestDTO struct {
	Title string `json:"title" validate:"required,max=200"`
}

type RenameResponseDTO struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
}

// MessageDTO is a stored message, optionally with its HTML rendering.
type MessageDTO struct {
	domain.Message
	HTML string `json:"html,omitempty"`
}

type ConversationMessagesDTO struct {
	Messages       []MessageDTO `json:"messages"`
	ConversationID string       `json:"conversationId"`
}

type ClearAllResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// ClientLogDTO is a log entry reported by the browser.
type ClientLogDTO struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	Context map[string]interface{} `json:"context,omitempty"`
}
