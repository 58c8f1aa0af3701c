package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// NewSlogLogger returns a root Logger writing text to w at the given level.
// A nil writer means stdout and a nil timezone means UTC.
func NewSlogLogger(w io.Writer, level LogLevel, tz *time.Location) Logger {
	if w == nil {
		w = os.Stdout
	}
	if tz == nil {
		tz = time.UTC
	}

	slogLevel := parseLogLevel(string(level))
	return &scopedLogger{
		out:   slog.New(newTextHandler(w, slogLevel, tz)),
		level: slogLevel,
	}
}

// newTextHandler builds the console handler: no timestamp, TRACE shown by name,
// time-valued attributes converted to the configured zone.
func newTextHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= traceLevelValue {
					return slog.String(slog.LevelKey, "TRACE")
				}
			default:
				if a.Value.Kind() == slog.KindTime {
					return slog.Time(a.Key, a.Value.Time().In(tz))
				}
			}
			return a
		},
	})
}
