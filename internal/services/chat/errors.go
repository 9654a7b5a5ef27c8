// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeGeneration ErrorType = "GENERATION"
	ErrTypeStorage    ErrorType = "STORAGE"
)

type ChatError struct {
	Type           ErrorType
	Operation      string
	Message        string
	ConversationID string
	UserID         uint
	Cause          error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

// NewNotFoundError is returned both for missing conversations and for
// conversations owned by someone else.
func NewNotFoundError(operation string, userID uint, conversationID string) *ChatError {
	return &ChatError{
		Type:           ErrTypeNotFound,
		Operation:      operation,
		Message:        "conversation not found",
		UserID:         userID,
		ConversationID: conversationID,
	}
}

func NewGenerationError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeGeneration, Operation: operation, Message: msg, Cause: cause}
}

func NewStorageError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// IsType reports whether err is a ChatError of the given type.
func IsType(err error, t ErrorType) bool {
	var chatErr *ChatError
	return errors.As(err, &chatErr) && chatErr.Type == t
}
