// File: internal/middleware/constants.go
package middleware

// Context keys for middleware communication
type contextKey string

const (
	ClaimsKey    contextKey = "claims"
	RequestIDKey contextKey = "request_id"
)

const RequestIDHeader = "X-Request-ID"

// Logger is the logging interface used by the middleware.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
