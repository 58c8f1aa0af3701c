package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	_ "time/tzdata" // embedded zone data for time.LoadLocation on hosts without it
)

// traceLevelValue sits below slog.LevelDebug (-4)
const traceLevelValue = slog.Level(-8)

var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal installs cl as the process-wide logger
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	globalLogger = cl
	globalLoggerMu.Unlock()
}

// Global returns the process-wide logger. Until SetGlobal is called it is a
// console logger at the default level.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		globalLogger = &CentralLogger{
			config:   &LoggingConfig{DefaultLevel: DefaultLogLevel},
			timezone: time.Local,
			levels:   map[string]slog.Level{},
			handler:  newTextHandler(os.Stdout, parseLogLevel(DefaultLogLevel), time.Local),
		}
	}
	return globalLogger
}

// CentralLogger owns the output handlers and hands out module-scoped loggers
type CentralLogger struct {
	config   *LoggingConfig
	timezone *time.Location
	handler  slog.Handler
	file     *fileWriter
	levels   map[string]slog.Level
	mu       sync.RWMutex
}

// NewCentralLogger builds the console and file outputs described by cfg.
// Missing sections of cfg are filled with defaults.
func NewCentralLogger(cfg *LoggingConfig) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}
	applyConfigDefaults(cfg)

	tz, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cl := &CentralLogger{
		config:   cfg,
		timezone: tz,
		levels:   make(map[string]slog.Level, len(cfg.ModuleLevels)),
	}
	for module, level := range cfg.ModuleLevels {
		cl.levels[module] = parseLogLevel(level)
	}

	if err := cl.buildHandler(); err != nil {
		return nil, fmt.Errorf("failed to create log handler: %w", err)
	}
	return cl, nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", name, err)
	}
	return tz, nil
}

func (cl *CentralLogger) buildHandler() error {
	var outputs []slog.Handler

	if console := cl.config.Console; console != nil && console.Enabled {
		outputs = append(outputs, newTextHandler(os.Stdout, parseLogLevel(console.Level), cl.timezone))
	}

	if file := cl.config.FileOutput; file != nil && file.Enabled {
		w, err := openFileWriter(file.Path)
		if err != nil {
			return err
		}
		cl.file = w
		outputs = append(outputs, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(file.Level)}))
	}

	switch len(outputs) {
	case 0:
		cl.handler = newTextHandler(os.Stdout, parseLogLevel(cl.config.DefaultLevel), cl.timezone)
	case 1:
		cl.handler = outputs[0]
	default:
		cl.handler = newMultiWriterHandler(outputs...)
	}
	return nil
}

// Module returns a logger for name. Its level is the most specific entry of
// ModuleLevels matching name or one of its dotted parents.
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	return &scopedLogger{
		module: name,
		out:    slog.New(cl.handler),
		level:  cl.levelFor(name),
	}
}

func (cl *CentralLogger) levelFor(module string) slog.Level {
	for name := module; name != ""; {
		if level, ok := cl.levels[name]; ok {
			return level
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return parseLogLevel(cl.config.DefaultLevel)
}

// Flush pushes buffered file output to the OS
func (cl *CentralLogger) Flush() error {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()
	if cl.file == nil {
		return nil
	}
	if err := cl.file.Flush(); err != nil {
		return fmt.Errorf("failed to flush log file: %w", err)
	}
	return nil
}

// Close flushes and closes the log file. It is safe on a nil logger.
func (cl *CentralLogger) Close() error {
	if cl == nil {
		return nil
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.file == nil {
		return nil
	}
	err := cl.file.Close()
	cl.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// parseLogLevel maps a level name to slog; unknown names mean info
func parseLogLevel(level string) slog.Level {
	switch LogLevel(strings.ToLower(level)) {
	case LogLevelTrace:
		return traceLevelValue
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
