// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/conversation"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID string, userID uint) ([]domain.Message, error) {
	if conversationID == "" || userID == 0 {
		return nil, errors.New("invalid conversation ID or user ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.conversation_id = ? AND conversations.user_id = ?", conversationID, userID).
		Order("messages.id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation %s: %v", conversationID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) AppendTurn(ctx context.Context, userMessage, assistantMessage *domain.Message) error {
	if err := r.validateMessageInput(userMessage, domain.RoleUser); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := r.validateMessageInput(assistantMessage, domain.RoleAssistant); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if userMessage.ConversationID != assistantMessage.ConversationID {
		return errors.New("validation failed: messages belong to different conversations")
	}

	conversationID := userMessage.ConversationID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMessage).Error; err != nil {
			return err
		}
		if err := tx.Create(assistantMessage).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return conversation.ErrConversationNotFound
		}
		return nil
	})
	if errors.Is(err, conversation.ErrConversationNotFound) {
		log.Printf("[MessageRepository] Conversation %s was deleted before the turn was saved", conversationID)
		return err
	}
	if err != nil {
		log.Printf("[MessageRepository] Database error appending turn to conversation %s: %v", conversationID, err)
		return errors.New("database error saving messages")
	}

	log.Printf("[MessageRepository] Turn saved to conversation %s (messages %d, %d)", conversationID, userMessage.ID, assistantMessage.ID)
	return nil
}

func (r *gormMessageRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Count(&count).Error; err != nil {
		log.Printf("[MessageRepository] Database error counting messages: %v", err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) validateMessageInput(m *domain.Message, role string) error {
	if m == nil {
		return errors.New("message cannot be nil")
	}
	if m.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if m.Role != role {
		return fmt.Errorf("expected role %q, got %q", role, m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
