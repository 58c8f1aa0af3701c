// Package logger provides a structured, module-aware logging system built on log/slog.
//
// Components receive a Logger through their constructors and scope it with Module:
//
//	log := centralLogger.Module("session")
//	log.Warn("settings blob unreadable, using defaults", logger.Error(err))
//
// Console output is human-readable text without timestamps; the optional file
// output is JSON with timestamps for machine parsing.
//
// Tests use NewSlogLogger with a buffer or io.Discard:
//
//	testLogger := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
package logger

import (
	"context"
	"time"
	"unique"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Field represents a structured log field.
// Keys are interned with unique.Make so repeated keys share one allocation.
type Field struct {
	Key   string
	Value any
}

func internKey(key string) string {
	return unique.Make(key).Value()
}

// Pre-interned common keys
var (
	errorKey   = internKey("error")
	moduleKey  = internKey("module")
	traceIDKey = internKey("trace_id")
)

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a specific module
	Module(name string) Logger

	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger

	// Log with explicit level
	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

func field(key string, value any) Field {
	return Field{Key: internKey(key), Value: value}
}

func String(key, value string) Field { return field(key, value) }

// Int is used for counts, frets, string indices and status codes
func Int(key string, value int) Field { return field(key, value) }

func Int64(key string, value int64) Field   { return field(key, value) }
func Uint64(key string, value uint64) Field { return field(key, value) }

// Float64 values are rounded to three decimals on output
func Float64(key string, value float64) Field { return field(key, value) }

func Bool(key string, value bool) Field { return field(key, value) }

// Error always uses the key "error". A nil error logs a nil value.
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration renders like "1.5s"
func Duration(key string, value time.Duration) Field { return field(key, value) }

func Time(key string, value time.Time) Field { return field(key, value) }

// Any accepts arbitrary values; prefer the typed constructors
func Any(key string, value any) Field { return field(key, value) }
