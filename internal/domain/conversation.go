// File: internal/domain/conversation.go
package domain

import "time"

// DefaultConversationTitle is the placeholder given to conversations that
// have not yet received a first message.
const DefaultConversationTitle = "New Conversation"

// Conversation is an ordered, owned thread of messages sharing a title.
type Conversation struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID uint   `json:"-" gorm:"not null;index"`
	Title  string `json:"title" gorm:"size:200;not null"`
	// Titled is false only while the conversation still carries the
	// placeholder title and no message or rename has claimed it.
	Titled    bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}
