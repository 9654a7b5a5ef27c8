package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a LOG_LEVEL value to a LogLevel, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ProductionLogger is a structured logger backed by log/slog.
type ProductionLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewProductionLogger writes JSON lines when structured is set and
// key=value text otherwise.
func NewProductionLogger(w io.Writer, service string, level LogLevel, structured bool) *ProductionLogger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())

	opts := &slog.HandlerOptions{Level: lv}
	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &ProductionLogger{
		logger: slog.New(handler).With("service", service),
		level:  lv,
	}
}

// SetLevel updates the logging level
func (p *ProductionLogger) SetLevel(level LogLevel) {
	p.level.Set(level.slogLevel())
}

// With returns a logger that adds the given fields to every entry.
func (p *ProductionLogger) With(keysAndValues ...interface{}) *ProductionLogger {
	return &ProductionLogger{logger: p.logger.With(keysAndValues...), level: p.level}
}

// Slog exposes the underlying logger for libraries that take *slog.Logger.
func (p *ProductionLogger) Slog() *slog.Logger {
	return p.logger
}

func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.logger.Log(context.Background(), slog.LevelWarn, msg, keysAndValues...)
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger builds the logger for an environment: JSON in production,
// text elsewhere, nothing under test.
func NewLogger(service, env, level string) Logger {
	if env == "test" {
		return &NoOpLogger{}
	}
	return NewProductionLogger(os.Stdout, service, ParseLogLevel(level), env == "production")
}
