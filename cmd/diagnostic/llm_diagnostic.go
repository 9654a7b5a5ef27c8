// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iyunix/go-saber/internal/config"
	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/services"
	"github.com/iyunix/go-saber/internal/services/ai"
	"github.com/iyunix/go-saber/internal/services/chat"
)

const probeMessage = "How do I explain photosynthesis to a ten year old?"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.ChatModel = cfg.LLMChatModel
	aiConfig.TitleModel = cfg.LLMTitleModel
	aiConfig.Timeout = cfg.LLMTimeout
	aiConfig.MaxRetries = 0

	provider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("Provider setup failed: %v", err)
	}
	prompts, err := chat.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		log.Fatalf("Prompt load failed: %v", err)
	}

	fmt.Printf("Probing %s (chat=%s, title=%s)\n", cfg.LLMBaseURL, cfg.LLMChatModel, cfg.LLMTitleModel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := provider.HealthCheck(ctx); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	fmt.Println("OK   health check")

	settings := domain.DefaultAISettings()
	titles := chat.NewTitleGenerator(chat.DefaultConfig(), prompts, provider, &services.NoOpLogger{})
	start := time.Now()
	title := titles.Generate(ctx, probeMessage, settings)
	fmt.Printf("OK   title (%s): %q\n", time.Since(start).Round(time.Millisecond), title)

	start = time.Now()
	reply, err := provider.Chat(ctx, ai.ChatRequest{
		Message:      probeMessage,
		SystemPrompt: prompts.SystemPrompt(settings.Personality),
		Temperature:  settings.Temperature,
		MaxTokens:    settings.MaxTokens,
	})
	if err != nil {
		log.Fatalf("Chat completion failed: %v", err)
	}
	fmt.Printf("OK   chat (%s): %d characters\n", time.Since(start).Round(time.Millisecond), len(reply))
	fmt.Println(reply)
}
