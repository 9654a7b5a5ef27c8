package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/iyunix/go-saber/internal/database"
	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/conversation"
	"github.com/iyunix/go-saber/internal/repository/message"
	"github.com/iyunix/go-saber/internal/services/ai"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// fakeGenerator records every provider call.
type fakeGenerator struct {
	mu sync.Mutex

	reply    string
	chatErr  error
	title    string
	titleErr error

	chatCalls     []ai.ChatRequest
	generateCalls []ai.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls = append(f.generateCalls, req)
	return f.title, f.titleErr
}

func (f *fakeGenerator) Chat(_ context.Context, req ai.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls = append(f.chatCalls, req)
	return f.reply, f.chatErr
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chatCalls) + len(f.generateCalls)
}

// countingMessages counts appends and can fail them on demand.
type countingMessages struct {
	message.MessageRepository
	appends   int
	appendErr error
	// beforeAppend runs ahead of AppendTurn to simulate a concurrent delete.
	beforeAppend func(conversationID string)
}

func (c *countingMessages) AppendTurn(ctx context.Context, u, a *domain.Message) error {
	c.appends++
	if c.beforeAppend != nil {
		c.beforeAppend(u.ConversationID)
	}
	if c.appendErr != nil {
		return c.appendErr
	}
	return c.MessageRepository.AppendTurn(ctx, u, a)
}

// countingConversations counts writes.
type countingConversations struct {
	conversation.ConversationRepository
	writes int
	// beforeClaim runs ahead of ClaimTitle to simulate a concurrent turn.
	beforeClaim func(id string, userID uint)
}

func (c *countingConversations) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	c.writes++
	return c.ConversationRepository.Create(ctx, conv)
}

func (c *countingConversations) ClaimTitle(ctx context.Context, id string, userID uint, title string) (bool, error) {
	c.writes++
	if c.beforeClaim != nil {
		c.beforeClaim(id, userID)
	}
	return c.ConversationRepository.ClaimTitle(ctx, id, userID, title)
}

type harness struct {
	gen   *fakeGenerator
	convs *countingConversations
	msgs  *countingMessages
	orch  *Orchestrator
}

func newHarness(t *testing.T, gen *fakeGenerator) *harness {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	convs := &countingConversations{ConversationRepository: conversation.NewConversationRepository(db)}
	msgs := &countingMessages{MessageRepository: message.NewMessageRepository(db)}
	cfg := DefaultConfig()
	prompts := DefaultPrompts()
	titles := NewTitleGenerator(cfg, prompts, gen, nopLogger{})
	resolver := NewResolver(convs, msgs, titles, nopLogger{})

	return &harness{
		gen:   gen,
		convs: convs,
		msgs:  msgs,
		orch:  NewOrchestrator(cfg, resolver, msgs, gen, prompts, nopLogger{}),
	}
}

// seedConversation stores a conversation for userID with the given
// message contents, alternating user and assistant roles.
func (h *harness) seedConversation(t *testing.T, userID uint, titled bool, contents ...string) string {
	t.Helper()
	ctx := context.Background()
	conv, err := h.convs.ConversationRepository.Create(ctx, &domain.Conversation{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  "Seeded",
		Titled: titled,
	})
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	for i := 0; i+1 < len(contents); i += 2 {
		u := &domain.Message{ConversationID: conv.ID, Role: domain.RoleUser, Content: contents[i]}
		a := &domain.Message{ConversationID: conv.ID, Role: domain.RoleAssistant, Content: contents[i+1]}
		if err := h.msgs.MessageRepository.AppendTurn(ctx, u, a); err != nil {
			t.Fatalf("seed messages: %v", err)
		}
	}
	return conv.ID
}

func messagesOf(t *testing.T, h *harness, convID string, userID uint) []domain.Message {
	t.Helper()
	msgs, err := h.msgs.FindByConversationID(context.Background(), convID, userID)
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	return msgs
}

var errProvider = errors.New("provider unavailable")
