// File: internal/services/chat/title.go
package chat

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/services/ai"
)

const titleEllipsis = "..."

// titleTrimSet covers straight and typographic quotes plus whitespace.
const titleTrimSet = " \t\r\n\"'`“”‘’«»"

// TitleGenerator derives short conversation titles from a first message.
type TitleGenerator struct {
	config    *Config
	prompts   *Prompts
	generator ai.Generator
	logger    Logger
}

func NewTitleGenerator(config *Config, prompts *Prompts, generator ai.Generator, logger Logger) *TitleGenerator {
	return &TitleGenerator{
		config:    config,
		prompts:   prompts,
		generator: generator,
		logger:    logger,
	}
}

// Generate never fails: provider errors and unusable results fall back to
// the leading words of the message.
func (t *TitleGenerator) Generate(ctx context.Context, firstMessage string, settings domain.AISettings) string {
	message := strings.TrimSpace(firstMessage)
	if message == "" {
		return t.config.DefaultTitle
	}

	raw, err := t.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:        t.prompts.TitlePrompt(message),
		MaxTokens:     t.config.TitleMaxTokens,
		Temperature:   math.Min(settings.Temperature, t.config.TitleTemperatureCeiling),
		StopSequences: t.config.TitleStopSequences,
	})
	if err != nil {
		t.logger.Warn("title generation failed, using fallback", "error", err)
		return t.Fallback(message)
	}

	title, _ := truncateRunes(strings.Trim(raw, titleTrimSet), t.config.TitleMaxLength)
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < t.config.TitleMinLength {
		t.logger.Debug("generated title too short, using fallback", "title", title)
		return t.Fallback(message)
	}
	return title
}

// Fallback joins the first words of message and cuts them to the title
// budget, appending an ellipsis only when something was cut.
func (t *TitleGenerator) Fallback(message string) string {
	words := strings.Fields(message)
	if len(words) == 0 {
		return t.config.DefaultTitle
	}
	if len(words) > t.config.TitleMaxWords {
		words = words[:t.config.TitleMaxWords]
	}

	title, cut := truncateRunes(strings.Join(words, " "), t.config.TitleMaxLength)
	if cut {
		title = strings.TrimRightFunc(title, unicode.IsSpace) + titleEllipsis
	}
	return title
}
