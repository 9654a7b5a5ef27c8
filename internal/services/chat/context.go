// File: internal/services/chat/context.go
package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/services/ai"
)

// WindowContext returns the trailing contextMemory messages in their
// original order. A non-positive contextMemory yields no messages.
func WindowContext(messages []domain.Message, contextMemory int) []domain.Message {
	if contextMemory <= 0 || len(messages) == 0 {
		return nil
	}
	if len(messages) <= contextMemory {
		return messages
	}
	return messages[len(messages)-contextMemory:]
}

// toHistory maps stored messages into the provider's role vocabulary.
// An empty window becomes nil so the provider sees "no history".
func toHistory(messages []domain.Message) []ai.HistoryEntry {
	if len(messages) == 0 {
		return nil
	}
	history := make([]ai.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		role := ai.RoleChatbot
		if m.Role == domain.RoleUser {
			role = ai.RoleUser
		}
		history = append(history, ai.HistoryEntry{Role: role, Message: m.Content})
	}
	return history
}

// truncateRunes cuts input to at most maxLen runes without splitting a
// character. The boolean reports whether anything was cut.
func truncateRunes(input string, maxLen int) (string, bool) {
	if maxLen <= 0 {
		return "", input != ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input, false
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String(), true
}
