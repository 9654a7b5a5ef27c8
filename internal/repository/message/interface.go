// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-saber/internal/domain"
)

type MessageRepository interface {
	// FindByConversationID returns the messages of a conversation owned by
	// userID in creation order. Conversations of other users yield none.
	FindByConversationID(ctx context.Context, conversationID string, userID uint) ([]domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID string) (int64, error)
	// AppendTurn stores a user message followed by the assistant reply in
	// one transaction and bumps the conversation's updated_at. When the
	// conversation no longer exists nothing is stored and
	// conversation.ErrConversationNotFound is returned.
	AppendTurn(ctx context.Context, userMessage, assistantMessage *domain.Message) error
	CountTotal(ctx context.Context) (int64, error)
}
