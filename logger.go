package prefseditor

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel mirrors the slog levels.
type LogLevel int

const (
	LogLevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LogLevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LogLevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LogLevelError LogLevel = LogLevel(slog.LevelError)
)

// Logger defines the logging operations used by the registry, editor and hosts.
// The args are alternating key-value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level LogLevel)
}

// slogLogger is a Logger backed by a slog.Logger with a dynamic level.
type slogLogger struct {
	slogger  *slog.Logger
	levelVar *slog.LevelVar
}

// NewDefaultLogger returns a JSON logger on os.Stderr at info level.
func NewDefaultLogger() Logger {
	return NewJSONLogger(os.Stderr, LogLevelInfo)
}

// NewJSONLogger returns a JSON logger writing to w.
func NewJSONLogger(w io.Writer, level LogLevel) Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))
	return &slogLogger{
		slogger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar})),
		levelVar: levelVar,
	}
}

// NewTextLogger returns a logfmt-style logger writing to w, for terminals.
func NewTextLogger(w io.Writer, level LogLevel) Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))
	return &slogLogger{
		slogger:  slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})),
		levelVar: levelVar,
	}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// SetLevel changes the minimum level dynamically.
func (l *slogLogger) SetLevel(level LogLevel) {
	if l.levelVar != nil {
		l.levelVar.Set(slog.Level(level))
	}
}
