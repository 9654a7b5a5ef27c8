// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config == nil {
		return nil, NewConfigError("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", &AIError{Type: ErrTypeConfig, Operation: "generate", Message: "prompt is empty"}
	}

	return p.complete(ctx, "generate", openai.ChatCompletionRequest{
		Model: p.config.titleModel(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: wireTemperature(req.Temperature),
		Stop:        req.StopSequences,
	})
}

func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", &AIError{Type: ErrTypeConfig, Operation: "chat", Message: "message is empty"}
	}

	return p.complete(ctx, "chat", openai.ChatCompletionRequest{
		Model:       p.config.ChatModel,
		Messages:    buildChatMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: wireTemperature(req.Temperature),
	})
}

// HealthCheck sends a one-token completion to verify credentials and reachability.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	_, err := p.complete(ctx, "health", openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
		MaxTokens: 1,
	})
	var aiErr *AIError
	if errors.As(err, &aiErr) && aiErr.Type == ErrTypeEmptyResponse {
		return nil
	}
	return err
}

// complete runs one completion with per-attempt timeouts, retrying
// temporary failures up to MaxRetries times.
func (p *OpenAIProvider) complete(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, error) {
	var lastErr *AIError
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.config.RetryDelay*time.Duration(attempt)); err != nil {
				return "", classifyError(operation, req.Model, err)
			}
		}

		text, err := p.completeOnce(ctx, operation, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !err.Temporary() || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (p *OpenAIProvider) completeOnce(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, *AIError) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(attemptCtx, req)
	if err != nil {
		return "", classifyError(operation, req.Model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &AIError{
			Type:      ErrTypeEmptyResponse,
			Operation: operation,
			Model:     req.Model,
			Message:   "empty completion response",
		}
	}
	return resp.Choices[0].Message.Content, nil
}

// wireTemperature keeps a requested zero on the wire. The client omits a
// zero temperature, which would let the provider apply its own default.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func buildChatMessages(req ChatRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, entry := range req.History {
		role := openai.ChatMessageRoleUser
		if entry.Role == RoleChatbot {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: entry.Message})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
