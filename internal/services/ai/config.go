// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string

	ChatModel  string
	TitleModel string

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("LLM_CHAT_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// titleModel falls back to the chat model when no dedicated model is set.
func (c *Config) titleModel() string {
	if c.TitleModel != "" {
		return c.TitleModel
	}
	return c.ChatModel
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.cohere.ai/compatibility/v1",
		ChatModel:  "command-r-plus",
		TitleModel: "command-r-plus",
		Timeout:    60 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}
