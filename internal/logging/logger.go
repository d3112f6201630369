// Package logging builds the leveled slog.Logger used across the program.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelTrace logs every calibration tick.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel accepts the values of the logging.level config key.
// Anything unrecognized logs at info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: labelTrace,
	}))
}

// labelTrace prints LevelTrace as TRACE instead of DEBUG-4.
func labelTrace(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
