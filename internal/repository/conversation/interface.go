package conversation

import (
	"context"

	"github.com/iyunix/go-saber/internal/domain"
)

// ConversationRepository handles conversation data operations. Every
// method that takes a userID only ever sees that user's rows.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	FindByIDForUser(ctx context.Context, id string, userID uint) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, id string, userID uint, title string) error
	// ClaimTitle sets the title only while the conversation is still
	// untitled. It reports whether this call won the claim.
	ClaimTitle(ctx context.Context, id string, userID uint, title string) (bool, error)
	Delete(ctx context.Context, id string, userID uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
}
