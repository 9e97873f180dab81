package core

import (
	"github.com/rs/zerolog"
)

// Logger is structured logging for the scheduler's own lifecycle
// (Initialize, Quit, affinity failures) — never wired into task
// execution itself. Tasks are opaque entry points, not observed by the
// scheduler beyond their counter, so they have no logging hooks.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// ZerologLogger backs Logger with zerolog.Logger.
type ZerologLogger struct {
	lg zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(lg zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{lg: lg}
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) { l.event(l.lg.Debug(), msg, fields) }
func (l *ZerologLogger) Info(msg string, fields ...Field)  { l.event(l.lg.Info(), msg, fields) }
func (l *ZerologLogger) Warn(msg string, fields ...Field)  { l.event(l.lg.Warn(), msg, fields) }
func (l *ZerologLogger) Error(msg string, fields ...Field) { l.event(l.lg.Error(), msg, fields) }

func (l *ZerologLogger) event(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}

// NoOpLogger discards all log messages. Useful for tests.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
