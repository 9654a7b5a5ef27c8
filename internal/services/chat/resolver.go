// File: internal/services/chat/resolver.go
package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/conversation"
	"github.com/iyunix/go-saber/internal/repository/message"
)

// Resolver decides which conversation a turn belongs to and titles it
// when the turn is the conversation's first.
type Resolver struct {
	convRepo conversation.ConversationRepository
	msgRepo  message.MessageRepository
	titles   *TitleGenerator
	logger   Logger
}

func NewResolver(
	convRepo conversation.ConversationRepository,
	msgRepo message.MessageRepository,
	titles *TitleGenerator,
	logger Logger,
) *Resolver {
	return &Resolver{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		titles:   titles,
		logger:   logger,
	}
}

// Resolve maps a turn onto a conversation. Without a conversation id a new
// titled conversation is created. With one, the conversation must belong
// to userID; an empty conversation is titled from firstMessage.
func (r *Resolver) Resolve(ctx context.Context, userID uint, conversationID, firstMessage string, settings domain.AISettings) (*Resolution, error) {
	if conversationID == "" {
		return r.createConversation(ctx, userID, firstMessage, settings)
	}
	if _, err := uuid.Parse(conversationID); err != nil {
		return nil, NewValidationError("resolve", "invalid conversation id")
	}

	conv, err := r.convRepo.FindByIDForUser(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, NewNotFoundError("resolve", userID, conversationID)
		}
		return nil, NewStorageError("resolve", "failed to load conversation", err)
	}

	count, err := r.msgRepo.CountByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, NewStorageError("resolve", "failed to count messages", err)
	}
	if count > 0 {
		return &Resolution{ConversationID: conv.ID, Title: conv.Title, IsFirstMessage: false}, nil
	}

	return r.titleEmptyConversation(ctx, conv, firstMessage, settings)
}

func (r *Resolver) createConversation(ctx context.Context, userID uint, firstMessage string, settings domain.AISettings) (*Resolution, error) {
	title := r.titles.Generate(ctx, firstMessage, settings)

	conv, err := r.convRepo.Create(ctx, &domain.Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Titled: true,
	})
	if err != nil {
		return nil, NewStorageError("resolve", "failed to create conversation", err)
	}

	r.logger.Info("conversation created", "user_id", userID, "conversation_id", conv.ID)
	return &Resolution{ConversationID: conv.ID, Title: conv.Title, IsFirstMessage: true}, nil
}

// titleEmptyConversation claims the title of a pre-created conversation.
// A conversation that is already titled keeps its title, and the loser of
// a concurrent claim reports the winner's title.
func (r *Resolver) titleEmptyConversation(ctx context.Context, conv *domain.Conversation, firstMessage string, settings domain.AISettings) (*Resolution, error) {
	res := &Resolution{ConversationID: conv.ID, Title: conv.Title, IsFirstMessage: true}
	if conv.Titled {
		return res, nil
	}

	title := r.titles.Generate(ctx, firstMessage, settings)
	won, err := r.convRepo.ClaimTitle(ctx, conv.ID, conv.UserID, title)
	if err != nil {
		return nil, NewStorageError("resolve", "failed to update title", err)
	}
	if won {
		res.Title = title
		return res, nil
	}

	current, err := r.convRepo.FindByIDForUser(ctx, conv.ID, conv.UserID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, NewNotFoundError("resolve", conv.UserID, conv.ID)
		}
		return nil, NewStorageError("resolve", "failed to reload conversation", err)
	}
	r.logger.Debug("title already claimed", "conversation_id", conv.ID, "title", current.Title)
	res.Title = current.Title
	return res, nil
}
