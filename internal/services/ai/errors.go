// File: internal/services/ai/errors.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type ErrorType string

const (
	ErrTypeConfig        ErrorType = "CONFIG"
	ErrTypeNetwork       ErrorType = "NETWORK"
	ErrTypeProvider      ErrorType = "PROVIDER"
	ErrTypeRateLimit     ErrorType = "RATE_LIMIT"
	ErrTypeEmptyResponse ErrorType = "EMPTY_RESPONSE"
)

type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether retrying the same request may succeed.
func (e *AIError) Temporary() bool {
	switch e.Type {
	case ErrTypeNetwork, ErrTypeRateLimit:
		return true
	case ErrTypeProvider:
		return e.Code >= http.StatusInternalServerError
	}
	return false
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

// classifyError turns a go-openai client error into an AIError.
func classifyError(operation, model string, err error) *AIError {
	aiErr := &AIError{Type: ErrTypeProvider, Operation: operation, Model: model, Message: "request failed", Cause: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		aiErr.Code = apiErr.HTTPStatusCode
		aiErr.Message = apiErr.Message
	case errors.As(err, &reqErr):
		aiErr.Code = reqErr.HTTPStatusCode
		aiErr.Message = "unexpected provider response"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		aiErr.Type = ErrTypeNetwork
		aiErr.Message = "provider unreachable"
		return aiErr
	}

	switch {
	case aiErr.Code == http.StatusTooManyRequests:
		aiErr.Type = ErrTypeRateLimit
	case aiErr.Code == http.StatusUnauthorized || aiErr.Code == http.StatusForbidden:
		aiErr.Type = ErrTypeConfig
	}
	return aiErr
}
