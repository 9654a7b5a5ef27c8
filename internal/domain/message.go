// File: internal/domain/message.go
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable entry of a conversation. Ordering is by ID,
// which follows creation order.
type Message struct {
	ID             uint   `json:"id" gorm:"primarykey"`
	ConversationID string `json:"conversation_id" gorm:"size:36;not null;index"`
	Role           string `json:"role" gorm:"size:16;not null"`
	Content        string `json:"content" gorm:"type:text;not null"`
	// Settings is the AI settings snapshot attached to assistant replies.
	Settings  datatypes.JSON `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (m *Message) IsValidRole() bool {
	return m.Role == RoleUser || m.Role == RoleAssistant
}

// AttachSettings stores a snapshot of the settings used to generate m.
func (m *Message) AttachSettings(s AISettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.Settings = datatypes.JSON(raw)
	return nil
}

// AppliedSettings decodes the snapshot. It returns nil for messages
// without one.
func (m *Message) AppliedSettings() (*AISettings, error) {
	if len(m.Settings) == 0 || string(m.Settings) == "null" {
		return nil, nil
	}
	var s AISettings
	if err := json.Unmarshal(m.Settings, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
