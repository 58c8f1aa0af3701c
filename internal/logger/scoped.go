package logger

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"time"
)

type traceIDContextKey struct{}

// TraceIDKey is the context key WithTraceID stores under
var TraceIDKey = traceIDContextKey{}

// WithTraceID returns a context whose loggers (see Logger.WithContext) tag
// records with traceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// scopedLogger is the Logger handed out by CentralLogger and NewSlogLogger.
// Records below level are dropped before any attribute is built.
type scopedLogger struct {
	module string
	out    *slog.Logger
	level  slog.Level
	fields []Field
}

func (s *scopedLogger) derive(module string, fields []Field) Logger {
	return &scopedLogger{module: module, out: s.out, level: s.level, fields: fields}
}

func (s *scopedLogger) Module(name string) Logger {
	if s == nil {
		return nil
	}
	if s.module != "" {
		name = s.module + "." + name
	}
	return s.derive(name, slices.Clone(s.fields))
}

func (s *scopedLogger) With(fields ...Field) Logger {
	if s == nil {
		return nil
	}
	return s.derive(s.module, slices.Concat(s.fields, fields))
}

func (s *scopedLogger) WithContext(ctx context.Context) Logger {
	if s == nil {
		return nil
	}
	if ctx == nil {
		return s
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	if traceID == "" {
		return s
	}
	return s.With(String(traceIDKey, traceID))
}

func (s *scopedLogger) Trace(msg string, fields ...Field) {
	s.emit(traceLevelValue, msg, fields)
}

func (s *scopedLogger) Debug(msg string, fields ...Field) {
	s.emit(slog.LevelDebug, msg, fields)
}

func (s *scopedLogger) Info(msg string, fields ...Field) {
	s.emit(slog.LevelInfo, msg, fields)
}

func (s *scopedLogger) Warn(msg string, fields ...Field) {
	s.emit(slog.LevelWarn, msg, fields)
}

func (s *scopedLogger) Error(msg string, fields ...Field) {
	s.emit(slog.LevelError, msg, fields)
}

func (s *scopedLogger) Log(level LogLevel, msg string, fields ...Field) {
	s.emit(parseLogLevel(string(level)), msg, fields)
}

// Flush is a no-op; file handles belong to the CentralLogger
func (s *scopedLogger) Flush() error {
	return nil
}

func (s *scopedLogger) emit(level slog.Level, msg string, fields []Field) {
	// errors are never filtered by the module level
	if s == nil || (level < s.level && level < slog.LevelError) {
		return
	}

	attrs := make([]slog.Attr, 0, 1+len(s.fields)+len(fields))
	if s.module != "" {
		attrs = append(attrs, slog.String(moduleKey, s.module))
	}
	for _, f := range s.fields {
		attrs = append(attrs, fieldToAttr(f))
	}
	for _, f := range fields {
		attrs = append(attrs, fieldToAttr(f))
	}
	s.out.LogAttrs(context.Background(), level, msg, attrs...)
}

// fieldToAttr converts a Field, rounding floats to three decimals and
// durations to milliseconds
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case uint64:
		return slog.Uint64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, math.Round(v*1000)/1000)
	case bool:
		return slog.Bool(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	case time.Duration:
		return slog.String(f.Key, v.Round(time.Millisecond).String())
	default:
		return slog.Any(f.Key, v)
	}
}
