package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type completionServer struct {
	calls    atomic.Int32
	lastReq  openai.ChatCompletionRequest
	lastBody []byte
	statuses []int
	content  string
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(s.calls.Add(1))
	s.lastBody, _ = io.ReadAll(r.Body)
	_ = json.Unmarshal(s.lastBody, &s.lastReq)
	w.Header().Set("Content-Type", "application/json")

	if n <= len(s.statuses) && s.statuses[n-1] != http.StatusOK {
		w.WriteHeader(s.statuses[n-1])
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  s.lastReq.Model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": s.content},
			"finish_reason": "stop",
		}},
	})
}

func newTestProvider(t *testing.T, srv *completionServer) *OpenAIProvider {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = ts.URL
	cfg.TitleModel = "title-model"
	cfg.RetryDelay = time.Millisecond
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(DefaultConfig())
	var aiErr *AIError
	if !errors.As(err, &aiErr) || aiErr.Type != ErrTypeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestChat_SendsSystemPromptAndMappedHistory(t *testing.T) {
	srv := &completionServer{content: "Plants turn light into sugar."}
	p := newTestProvider(t, srv)

	got, err := p.Chat(context.Background(), ChatRequest{
		Message: "And at night?",
		History: []HistoryEntry{
			{Role: RoleUser, Message: "Explain photosynthesis"},
			{Role: RoleChatbot, Message: "It converts light."},
		},
		SystemPrompt: "You are SABER.",
		Temperature:  0.5,
		MaxTokens:    300,
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got != "Plants turn light into sugar." {
		t.Fatalf("unexpected reply %q", got)
	}

	msgs := srv.lastReq.Messages
	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(msgs) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(msgs))
	}
	for i, role := range wantRoles {
		if msgs[i].Role != role {
			t.Fatalf("message %d: expected role %q, got %q", i, role, msgs[i].Role)
		}
	}
	if msgs[3].Content != "And at night?" {
		t.Fatalf("expected new message last, got %q", msgs[3].Content)
	}
	if srv.lastReq.MaxTokens != 300 || srv.lastReq.Model != "command-r-plus" {
		t.Fatalf("unexpected request parameters: %+v", srv.lastReq)
	}
}

func TestGenerate_UsesTitleModelAndStops(t *testing.T) {
	srv := &completionServer{content: "Photosynthesis Basics"}
	p := newTestProvider(t, srv)

	_, err := p.Generate(context.Background(), GenerateRequest{
		Prompt:        "Title this",
		MaxTokens:     15,
		Temperature:   0.3,
		StopSequences: []string{"\n"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if srv.lastReq.Model != "title-model" {
		t.Fatalf("expected title model, got %q", srv.lastReq.Model)
	}
	if len(srv.lastReq.Stop) != 1 || srv.lastReq.Stop[0] != "\n" {
		t.Fatalf("expected stop sequences to be forwarded, got %v", srv.lastReq.Stop)
	}
}

func TestComplete_RetriesServerErrors(t *testing.T) {
	srv := &completionServer{
		statuses: []int{http.StatusBadGateway, http.StatusTooManyRequests},
		content:  "ok",
	}
	p := newTestProvider(t, srv)

	got, err := p.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got != "ok" || srv.calls.Load() != 3 {
		t.Fatalf("expected 3 calls ending in success, got %d calls, reply %q", srv.calls.Load(), got)
	}
}

func TestComplete_DoesNotRetryAuthFailures(t *testing.T) {
	srv := &completionServer{statuses: []int{http.StatusUnauthorized}}
	p := newTestProvider(t, srv)

	_, err := p.Chat(context.Background(), ChatRequest{Message: "hi"})
	var aiErr *AIError
	if !errors.As(err, &aiErr) || aiErr.Type != ErrTypeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
	if srv.calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", srv.calls.Load())
	}
}

func TestComplete_EmptyResponseIsAnError(t *testing.T) {
	srv := &completionServer{content: "   "}
	p := newTestProvider(t, srv)

	_, err := p.Chat(context.Background(), ChatRequest{Message: "hi"})
	var aiErr *AIError
	if !errors.As(err, &aiErr) || aiErr.Type != ErrTypeEmptyResponse {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestZeroTemperatureIsSentExplicitly(t *testing.T) {
	srv := &completionServer{content: "Cells"}
	p := newTestProvider(t, srv)
	ctx := context.Background()

	calls := []struct {
		name string
		run  func() error
	}{
		{"chat", func() error {
			_, err := p.Chat(ctx, ChatRequest{Message: "x", Temperature: 0, MaxTokens: 10})
			return err
		}},
		{"generate", func() error {
			_, err := p.Generate(ctx, GenerateRequest{Prompt: "x", Temperature: 0, MaxTokens: 10})
			return err
		}},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(); err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
			var body map[string]any
			if err := json.Unmarshal(srv.lastBody, &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			temp, ok := body["temperature"].(float64)
			if !ok {
				t.Fatalf("temperature missing from request body: %s", srv.lastBody)
			}
			if temp < 0 || temp > 1e-6 {
				t.Errorf("temperature = %v, want effectively zero", temp)
			}
		})
	}
}

func TestNonZeroTemperatureIsForwarded(t *testing.T) {
	srv := &completionServer{content: "Cells"}
	p := newTestProvider(t, srv)

	if _, err := p.Chat(context.Background(), ChatRequest{Message: "x", Temperature: 0.5, MaxTokens: 10}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if srv.lastReq.Temperature != 0.5 {
		t.Errorf("temperature = %v, want 0.5", srv.lastReq.Temperature)
	}
}
