// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"

	"github.com/iyunix/go-saber/internal/domain"
)

type Config struct {
	// Title policy
	DefaultTitle            string
	TitleMaxLength          int // runes
	TitleMaxWords           int
	TitleMinLength          int
	TitleMaxTokens          int
	TitleTemperatureCeiling float64
	TitleStopSequences      []string

	MaxMessageLength int // runes, after trimming

	// Provider and persistence run detached from the caller's
	// cancellation, bounded by these timeouts.
	GenerationTimeout time.Duration
	PersistTimeout    time.Duration
}

func (c *Config) Validate() error {
	if c.DefaultTitle == "" {
		return fmt.Errorf("default_title is required")
	}
	if c.TitleMaxLength <= 0 || c.TitleMaxWords <= 0 {
		return fmt.Errorf("title length and word budgets must be positive")
	}
	if c.TitleMinLength < 0 || c.TitleMinLength > c.TitleMaxLength {
		return fmt.Errorf("title_min_length must be between 0 and title_max_length")
	}
	if c.TitleMaxTokens <= 0 {
		return fmt.Errorf("title_max_tokens must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.GenerationTimeout <= 0 || c.PersistTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		DefaultTitle:            domain.DefaultConversationTitle,
		TitleMaxLength:          40,
		TitleMaxWords:           5,
		TitleMinLength:          3,
		TitleMaxTokens:          15,
		TitleTemperatureCeiling: 0.7,
		TitleStopSequences:      []string{"\n", "\"", "'"},
		MaxMessageLength:        8000,
		GenerationTimeout:       2 * time.Minute,
		PersistTimeout:          10 * time.Second,
	}
}
