package user_services

import "errors"

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidInput       = errors.New("invalid input")
)

// maskEmail keeps the first characters of the local part for logs.
func maskEmail(email string) string {
	return email[:min(3, len(email))] + "****"
}
