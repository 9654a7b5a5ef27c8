// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/conversation"
	"github.com/iyunix/go-saber/internal/repository/message"
	"github.com/iyunix/go-saber/internal/repository/user"
	chatservice "github.com/iyunix/go-saber/internal/services/chat"
)

const (
	ExportVersion  = "2.0.0"
	MaxTitleLength = 200
)

// HistoryBuckets groups conversations by when they were last updated.
type HistoryBuckets struct {
	Today     []domain.Conversation `json:"today"`
	Yesterday []domain.Conversation `json:"yesterday"`
	Week      []domain.Conversation `json:"week"`
	Older     []domain.Conversation `json:"older"`
}

type ExportUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ExportConversation struct {
	domain.Conversation
	Messages []domain.Message `json:"messages"`
}

// ExportBundle is the downloadable archive of a user's conversations.
type ExportBundle struct {
	Message            string               `json:"message,omitempty"`
	ExportDate         time.Time            `json:"exportDate"`
	Version            string               `json:"version,omitempty"`
	User               *ExportUser          `json:"user,omitempty"`
	TotalConversations int                  `json:"totalConversations,omitempty"`
	Conversations      []ExportConversation `json:"conversations"`
}

type Stats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalConversations int64 `json:"totalConversations"`
	TotalMessages      int64 `json:"totalMessages"`
}

// ChatService is the conversation-facing API used by the HTTP layer.
type ChatService struct {
	convRepo conversation.ConversationRepository
	msgRepo  message.MessageRepository
	userRepo user.UserRepository
	turns    chatservice.TurnHandler
	logger   Logger
}

func NewChatService(
	convRepo conversation.ConversationRepository,
	msgRepo message.MessageRepository,
	userRepo user.UserRepository,
	turns chatservice.TurnHandler,
	logger Logger,
) (*ChatService, error) {
	if convRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "conversation repository is required")
	}
	if msgRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if userRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "user repository is required")
	}
	if turns == nil {
		return nil, chatservice.NewValidationError("constructor", "turn handler is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		turns:    turns,
		logger:   logger,
	}, nil
}

func (s *ChatService) HandleTurn(ctx context.Context, req chatservice.TurnRequest) (*chatservice.TurnResult, error) {
	return s.turns.HandleTurn(ctx, req)
}

// CreateConversation stores an empty conversation whose title is claimed
// by its first message.
func (s *ChatService) CreateConversation(ctx context.Context, userID uint) (*domain.Conversation, error) {
	conv, err := s.convRepo.Create(ctx, &domain.Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  domain.DefaultConversationTitle,
	})
	if err != nil {
		return nil, chatservice.NewStorageError("create_conversation", "failed to create conversation", err)
	}
	s.logger.Info("empty conversation created", "user_id", userID, "conversation_id", conv.ID)
	return conv, nil
}

func (s *ChatService) GetHistory(ctx context.Context, userID uint, now time.Time) (*HistoryBuckets, error) {
	convs, err := s.convRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, chatservice.NewStorageError("history", "failed to load conversations", err)
	}
	buckets := BucketHistory(convs, now)
	return &buckets, nil
}

// BucketHistory splits conversations relative to local midnight of now.
// Input order is kept within each bucket.
func BucketHistory(convs []domain.Conversation, now time.Time) HistoryBuckets {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := midnight.AddDate(0, 0, -1)
	weekAgo := midnight.AddDate(0, 0, -7)

	buckets := HistoryBuckets{
		Today:     []domain.Conversation{},
		Yesterday: []domain.Conversation{},
		Week:      []domain.Conversation{},
		Older:     []domain.Conversation{},
	}
	for _, c := range convs {
		switch {
		case !c.UpdatedAt.Before(midnight):
			buckets.Today = append(buckets.Today, c)
		case !c.UpdatedAt.Before(yesterday):
			buckets.Yesterday = append(buckets.Yesterday, c)
		case !c.UpdatedAt.Before(weekAgo):
			buckets.Week = append(buckets.Week, c)
		default:
			buckets.Older = append(buckets.Older, c)
		}
	}
	return buckets
}

func (s *ChatService) GetConversationMessages(ctx context.Context, userID uint, conversationID string) ([]domain.Message, error) {
	conv, err := s.ownedConversation(ctx, "get_messages", userID, conversationID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.msgRepo.FindByConversationID(ctx, conv.ID, userID)
	if err != nil {
		return nil, chatservice.NewStorageError("get_messages", "failed to load messages", err)
	}
	return msgs, nil
}

func (s *ChatService) RenameConversation(ctx context.Context, userID uint, conversationID, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", chatservice.NewValidationError("rename", "title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", chatservice.NewValidationError("rename", fmt.Sprintf("title cannot exceed %d characters", MaxTitleLength))
	}
	if _, err := uuid.Parse(conversationID); err != nil {
		return "", chatservice.NewValidationError("rename", "invalid conversation id")
	}

	if err := s.convRepo.UpdateTitle(ctx, conversationID, userID, title); err != nil {
		return "", s.mapRepoError("rename", userID, conversationID, err)
	}
	return title, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID uint, conversationID string) error {
	if _, err := uuid.Parse(conversationID); err != nil {
		return chatservice.NewValidationError("delete", "invalid conversation id")
	}
	if err := s.convRepo.Delete(ctx, conversationID, userID); err != nil {
		return s.mapRepoError("delete", userID, conversationID, err)
	}
	s.logger.Info("conversation deleted", "user_id", userID, "conversation_id", conversationID)
	return nil
}

// ClearAll deletes every conversation of userID and reports how many
// were removed.
func (s *ChatService) ClearAll(ctx context.Context, userID uint) (int64, error) {
	deleted, err := s.convRepo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		return 0, chatservice.NewStorageError("clear_all", "failed to delete conversations", err)
	}
	s.logger.Info("conversations cleared", "user_id", userID, "deleted", deleted)
	return deleted, nil
}

func (s *ChatService) Export(ctx context.Context, userID uint, now time.Time) (*ExportBundle, error) {
	convs, err := s.convRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, chatservice.NewStorageError("export", "failed to load conversations", err)
	}
	if len(convs) == 0 {
		return &ExportBundle{
			Message:       "No conversations to export.",
			ExportDate:    now,
			Conversations: []ExportConversation{},
		}, nil
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, chatservice.NewStorageError("export", "failed to load user", err)
	}

	bundle := &ExportBundle{
		ExportDate:         now,
		Version:            ExportVersion,
		User:               &ExportUser{ID: u.ID, Email: u.Email, Name: u.Name},
		TotalConversations: len(convs),
		Conversations:      make([]ExportConversation, 0, len(convs)),
	}
	for _, c := range convs {
		msgs, err := s.msgRepo.FindByConversationID(ctx, c.ID, userID)
		if err != nil {
			return nil, chatservice.NewStorageError("export", "failed to load messages", err)
		}
		if msgs == nil {
			msgs = []domain.Message{}
		}
		bundle.Conversations = append(bundle.Conversations, ExportConversation{Conversation: c, Messages: msgs})
	}
	return bundle, nil
}

// ExportFilename is the attachment name offered for an export.
func ExportFilename(userID uint, now time.Time) string {
	return fmt.Sprintf("saber_export_%d_%s.json", userID, now.Format("2006-01-02"))
}

func (s *ChatService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, chatservice.NewStorageError("stats", "failed to count users", err)
	}
	convs, err := s.convRepo.CountTotal(ctx)
	if err != nil {
		return nil, chatservice.NewStorageError("stats", "failed to count conversations", err)
	}
	msgs, err := s.msgRepo.CountTotal(ctx)
	if err != nil {
		return nil, chatservice.NewStorageError("stats", "failed to count messages", err)
	}
	return &Stats{TotalUsers: users, TotalConversations: convs, TotalMessages: msgs}, nil
}

func (s *ChatService) ownedConversation(ctx context.Context, operation string, userID uint, conversationID string) (*domain.Conversation, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return nil, chatservice.NewValidationError(operation, "invalid conversation id")
	}
	conv, err := s.convRepo.FindByIDForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, s.mapRepoError(operation, userID, conversationID, err)
	}
	return conv, nil
}

func (s *ChatService) mapRepoError(operation string, userID uint, conversationID string, err error) error {
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return chatservice.NewNotFoundError(operation, userID, conversationID)
	}
	s.logger.Error("conversation repository failed", "operation", operation, "error", err)
	return chatservice.NewStorageError(operation, "conversation operation failed", err)
}
