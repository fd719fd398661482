// Package citylog defines the leveled logging contract used by the CityGML
// parser and a log/slog backed implementation of it.
package citylog

import (
	"context"
	"fmt"
	"log/slog"
)

// Level is the severity of a log message.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// LevelTrace has no slog counterpart, it sits below debug.
const slogLevelTrace = slog.LevelDebug - 4

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	}
	return slogLevelTrace
}

// Location points at a position inside a parsed document.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Logger is the logging contract consumed by the parsing pipeline.
// loc may be nil when no document position is known.
type Logger interface {
	Log(level Level, msg string, loc *Location)
	IsEnabledFor(level Level) bool
}

// SlogLogger forwards messages to a *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger. A nil logger means slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (s *SlogLogger) Log(level Level, msg string, loc *Location) {
	ctx := context.Background()
	lvl := level.slogLevel()
	if !s.logger.Enabled(ctx, lvl) {
		return
	}
	if loc == nil {
		s.logger.Log(ctx, lvl, msg)
		return
	}
	s.logger.Log(ctx, lvl, msg, "file", loc.File, "line", loc.Line, "column", loc.Column)
}

func (s *SlogLogger) IsEnabledFor(level Level) bool {
	return s.logger.Enabled(context.Background(), level.slogLevel())
}

type discard struct{}

func (discard) Log(Level, string, *Location) {}

func (discard) IsEnabledFor(Level) bool { return false }

// Discard returns a Logger that drops every message.
func Discard() Logger { return discard{} }

// Default returns a Logger backed by slog.Default().
func Default() Logger { return NewSlogLogger(nil) }

// Logf formats and logs msg when level is enabled.
func Logf(l Logger, level Level, loc *Location, format string, args ...any) {
	if l == nil || !l.IsEnabledFor(level) {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...), loc)
}
