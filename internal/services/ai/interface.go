// File: internal/services/ai/interface.go
package ai

import "context"

// History roles understood by Chat.
const (
	RoleUser    = "USER"
	RoleChatbot = "CHATBOT"
)

// GenerateRequest is a single-prompt completion, used for short utility
// generations such as titles.
type GenerateRequest struct {
	Prompt        string
	MaxTokens     int
	Temperature   float64
	StopSequences []string
}

// HistoryEntry is one prior message sent along with a chat request.
type HistoryEntry struct {
	Role    string
	Message string
}

// ChatRequest carries a user message with its history. A nil History
// means "no history".
type ChatRequest struct {
	Message      string
	History      []HistoryEntry
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Generator is the text generation capability the chat core depends on.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Provider is a Generator that can also report its health.
type Provider interface {
	Generator
	HealthCheck(ctx context.Context) error
}
