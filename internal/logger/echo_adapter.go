package logger

import (
	"fmt"
	"io"
	"sync/atomic"

	echolog "github.com/labstack/gommon/log"
)

// EchoLoggerAdapter routes Echo's internal logging through a Logger.
//
//	e := echo.New()
//	e.Logger = logger.NewEchoLoggerAdapter(log.Module("echo"))
type EchoLoggerAdapter struct {
	logger Logger
	level  atomic.Uint32
}

// NewEchoLoggerAdapter wraps logger. A nil logger uses the global one.
func NewEchoLoggerAdapter(logger Logger) *EchoLoggerAdapter {
	if logger == nil {
		logger = Global().Module("echo")
	}
	a := &EchoLoggerAdapter{logger: logger}
	a.level.Store(uint32(echolog.INFO))
	return a
}

// Output is unused; output is owned by the wrapped logger
func (a *EchoLoggerAdapter) Output() io.Writer { return io.Discard }

func (a *EchoLoggerAdapter) SetOutput(io.Writer) {}

func (a *EchoLoggerAdapter) Prefix() string { return "" }

func (a *EchoLoggerAdapter) SetPrefix(string) {}

func (a *EchoLoggerAdapter) SetHeader(string) {}

// Level returns the minimum level forwarded to the wrapped logger
func (a *EchoLoggerAdapter) Level() echolog.Lvl {
	return echolog.Lvl(a.level.Load())
}

// SetLevel drops messages below lvl before they reach the wrapped logger
func (a *EchoLoggerAdapter) SetLevel(lvl echolog.Lvl) {
	a.level.Store(uint32(lvl))
}

func (a *EchoLoggerAdapter) enabled(lvl echolog.Lvl) bool {
	return lvl >= a.Level()
}

func (a *EchoLoggerAdapter) emit(lvl echolog.Lvl, msg string, fields ...Field) {
	if !a.enabled(lvl) {
		return
	}
	switch lvl {
	case echolog.DEBUG:
		a.logger.Debug(msg, fields...)
	case echolog.WARN:
		a.logger.Warn(msg, fields...)
	case echolog.ERROR:
		a.logger.Error(msg, fields...)
	default:
		a.logger.Info(msg, fields...)
	}
}

func (a *EchoLoggerAdapter) Print(i ...any) {
	a.emit(echolog.INFO, fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Printf(format string, v ...any) {
	a.emit(echolog.INFO, fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Printj(j echolog.JSON) {
	a.emit(echolog.INFO, "echo", Any("data", j))
}

func (a *EchoLoggerAdapter) Debug(i ...any) {
	a.emit(echolog.DEBUG, fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Debugf(format string, v ...any) {
	a.emit(echolog.DEBUG, fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Debugj(j echolog.JSON) {
	a.emit(echolog.DEBUG, "echo", Any("data", j))
}

func (a *EchoLoggerAdapter) Info(i ...any) {
	a.emit(echolog.INFO, fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Infof(format string, v ...any) {
	a.emit(echolog.INFO, fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Infoj(j echolog.JSON) {
	a.emit(echolog.INFO, "echo", Any("data", j))
}

func (a *EchoLoggerAdapter) Warn(i ...any) {
	a.emit(echolog.WARN, fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Warnf(format string, v ...any) {
	a.emit(echolog.WARN, fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Warnj(j echolog.JSON) {
	a.emit(echolog.WARN, "echo", Any("data", j))
}

func (a *EchoLoggerAdapter) Error(i ...any) {
	a.emit(echolog.ERROR, fmt.Sprint(i...))
}

func (a *EchoLoggerAdapter) Errorf(format string, v ...any) {
	a.emit(echolog.ERROR, fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Errorj(j echolog.JSON) {
	a.emit(echolog.ERROR, "echo", Any("data", j))
}

// Fatal logs at error level and panics; the recover middleware turns it into a 500
func (a *EchoLoggerAdapter) Fatal(i ...any) {
	msg := fmt.Sprint(i...)
	a.logger.Error(msg)
	panic("echo fatal: " + msg)
}

func (a *EchoLoggerAdapter) Fatalf(format string, v ...any) {
	a.Fatal(fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Fatalj(j echolog.JSON) {
	a.Fatal(fmt.Sprint(j))
}

func (a *EchoLoggerAdapter) Panic(i ...any) {
	msg := fmt.Sprint(i...)
	a.logger.Error(msg)
	panic(msg)
}

func (a *EchoLoggerAdapter) Panicf(format string, v ...any) {
	a.Panic(fmt.Sprintf(format, v...))
}

func (a *EchoLoggerAdapter) Panicj(j echolog.JSON) {
	a.Panic(fmt.Sprint(j))
}
