// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-saber/internal/domain"
)

// ErrConversationNotFound covers both missing conversations and
// conversations owned by someone else.
var ErrConversationNotFound = errors.New("conversation not found")

const maxTitleLength = 200

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Create inserts a new conversation. The caller supplies the ID.
func (r *gormConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateConversationInput(conversation); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		log.Printf("[ConversationRepository] Database error creating conversation for user ID %d: %v", conversation.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation %s created for user %d", conversation.ID, conversation.UserID)
	return conversation, nil
}

func (r *gormConversationRepository) FindByIDForUser(ctx context.Context, id string, userID uint) (*domain.Conversation, error) {
	if id == "" || userID == 0 {
		return nil, ErrConversationNotFound
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error
	return r.handleFindError(err, &conv, "FindByIDForUser")
}

// FindByUserID returns the user's conversations, most recently updated first.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var conversations []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, created_at DESC").
		Find(&conversations).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error listing conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return conversations, nil
}

// UpdateTitle renames an owned conversation and marks it titled.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, id string, userID uint, title string) error {
	if err := r.validateTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"title": title, "titled": true, "updated_at": time.Now()})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error renaming conversation %s for user ID %d: %v", id, userID, result.Error)
		return errors.New("database error updating conversation title")
	}
	if result.RowsAffected == 0 {
		// Some drivers report zero rows when nothing changed.
		exists, err := r.exists(ctx, id, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrConversationNotFound
		}
	}
	return nil
}

func (r *gormConversationRepository) ClaimTitle(ctx context.Context, id string, userID uint, title string) (bool, error) {
	if err := r.validateTitle(title); err != nil {
		return false, fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ? AND titled = ?", id, userID, false).
		Updates(map[string]any{"title": title, "titled": true, "updated_at": time.Now()})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error claiming title for conversation %s: %v", id, result.Error)
		return false, errors.New("database error claiming conversation title")
	}
	return result.RowsAffected == 1, nil
}

// Delete removes an owned conversation together with its messages.
func (r *gormConversationRepository) Delete(ctx context.Context, id string, userID uint) error {
	if id == "" || userID == 0 {
		return ErrConversationNotFound
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error
	})
	if errors.Is(err, ErrConversationNotFound) {
		return err
	}
	if err != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation %s for user ID %d: %v", id, userID, err)
		return errors.New("database error deleting conversation")
	}

	log.Printf("[ConversationRepository] Conversation %s deleted for user %d", id, userID)
	return nil
}

// DeleteAllByUserID removes every conversation of the user and their messages.
func (r *gormConversationRepository) DeleteAllByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&domain.Conversation{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("conversation_id IN (?)", owned).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ?", userID).Delete(&domain.Conversation{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		log.Printf("[ConversationRepository] Database error clearing conversations for user ID %d: %v", userID, err)
		return 0, errors.New("database error clearing conversations")
	}

	log.Printf("[ConversationRepository] Cleared %d conversations for user %d", deleted, userID)
	return deleted, nil
}

func (r *gormConversationRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Count(&count).Error; err != nil {
		log.Printf("[ConversationRepository] Database error counting conversations: %v", err)
		return 0, errors.New("database error counting conversations")
	}
	return count, nil
}

func (r *gormConversationRepository) exists(ctx context.Context, id string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error checking conversation %s: %v", id, err)
		return false, errors.New("database error checking conversation ownership")
	}
	return count > 0, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormConversationRepository) validateConversationInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.ID == "" {
		return errors.New("conversation ID is required")
	}
	if conv.UserID == 0 {
		return errors.New("user ID is required")
	}
	return r.validateTitle(conv.Title)
}

func (r *gormConversationRepository) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if len([]rune(title)) > maxTitleLength {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}

func (r *gormConversationRepository) handleFindError(err error, conv *domain.Conversation, operation string) (*domain.Conversation, error) {
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	log.Printf("[ConversationRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
