// File: internal/services/chat/orchestrator.go
package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/conversation"
	"github.com/iyunix/go-saber/internal/repository/message"
	"github.com/iyunix/go-saber/internal/services/ai"
)

// Orchestrator runs one chat turn: resolve, window, generate, persist.
type Orchestrator struct {
	config    *Config
	resolver  *Resolver
	msgRepo   message.MessageRepository
	generator ai.Generator
	prompts   *Prompts
	logger    Logger
}

var _ TurnHandler = (*Orchestrator)(nil)

func NewOrchestrator(
	config *Config,
	resolver *Resolver,
	msgRepo message.MessageRepository,
	generator ai.Generator,
	prompts *Prompts,
	logger Logger,
) *Orchestrator {
	return &Orchestrator{
		config:    config,
		resolver:  resolver,
		msgRepo:   msgRepo,
		generator: generator,
		prompts:   prompts,
		logger:    logger,
	}
}

// HandleTurn validates the message, resolves its conversation, asks the
// provider for a reply and stores both messages. Nothing is written when
// generation fails.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, NewValidationError("handle_turn", "message cannot be empty")
	}
	if utf8.RuneCountInString(text) > o.config.MaxMessageLength {
		return nil, NewValidationError("handle_turn", "message is too long")
	}

	settings := domain.MergeAISettings(req.RawSettings)

	// Provider and storage calls outlive a client disconnect.
	work := context.WithoutCancel(ctx)

	o.logger.Info("starting chat turn", "user_id", req.UserID, "conversation_id", req.ConversationID)
	res, err := o.resolver.Resolve(work, req.UserID, req.ConversationID, text, settings)
	if err != nil {
		return nil, err
	}

	prior, err := o.msgRepo.FindByConversationID(work, res.ConversationID, req.UserID)
	if err != nil {
		return nil, NewStorageError("handle_turn", "failed to load messages", err)
	}
	window := WindowContext(prior, settings.ContextMemory)

	reply, err := o.generate(work, text, window, settings)
	if err != nil {
		o.logger.Error("chat generation failed", "conversation_id", res.ConversationID, "error", err)
		return nil, NewGenerationError("handle_turn", "failed to generate a reply", err)
	}

	if err := o.persist(work, res.ConversationID, text, reply, settings); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			o.logger.Warn("conversation deleted during turn", "conversation_id", res.ConversationID)
			return nil, NewNotFoundError("handle_turn", req.UserID, res.ConversationID)
		}
		o.logger.Error("failed to store chat turn", "conversation_id", res.ConversationID, "error", err)
		return nil, NewStorageError("handle_turn", "failed to save messages", err)
	}

	o.logger.Info("chat turn completed",
		"conversation_id", res.ConversationID,
		"history_messages", len(window),
		"response_length", len(reply),
	)
	return &TurnResult{
		Response:        reply,
		ConversationID:  res.ConversationID,
		Title:           res.Title,
		IsFirstMessage:  res.IsFirstMessage,
		AppliedSettings: settings,
	}, nil
}

func (o *Orchestrator) generate(ctx context.Context, text string, window []domain.Message, settings domain.AISettings) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, o.config.GenerationTimeout)
	defer cancel()

	return o.generator.Chat(genCtx, ai.ChatRequest{
		Message:      text,
		History:      toHistory(window),
		SystemPrompt: o.prompts.SystemPrompt(settings.Personality),
		Temperature:  settings.Temperature,
		MaxTokens:    settings.MaxTokens,
	})
}

func (o *Orchestrator) persist(ctx context.Context, conversationID, text, reply string, settings domain.AISettings) error {
	persistCtx, cancel := context.WithTimeout(ctx, o.config.PersistTimeout)
	defer cancel()

	now := time.Now()
	userMsg := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        text,
		CreatedAt:      now,
	}
	assistantMsg := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		CreatedAt:      now,
	}
	if err := assistantMsg.AttachSettings(settings); err != nil {
		return err
	}
	return o.msgRepo.AppendTurn(persistCtx, userMsg, assistantMsg)
}
