// File: internal/services/chat/interface.go
package chat

import (
	"context"
	"encoding/json"

	"github.com/iyunix/go-saber/internal/domain"
)

// TurnRequest is one incoming chat message. RawSettings is the caller's
// partial settings object, merged over the defaults.
type TurnRequest struct {
	UserID         uint
	Message        string
	ConversationID string
	RawSettings    json.RawMessage
}

type TurnResult struct {
	Response        string            `json:"response"`
	ConversationID  string            `json:"conversationId"`
	Title           string            `json:"title"`
	IsFirstMessage  bool              `json:"isFirstMessage"`
	AppliedSettings domain.AISettings `json:"appliedSettings"`
}

// Resolution is the conversation a turn attaches to.
type Resolution struct {
	ConversationID string
	Title          string
	IsFirstMessage bool
}

// TurnHandler executes complete chat turns.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
}
