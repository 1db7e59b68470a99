// Package logging provides structured logging for the rollcall backend.
//
// It wraps log/slog to give every component a named logger with a shared
// level and output format. Storage and report code log through component
// loggers so read-side failures that are downgraded to empty results
// still leave a trace.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger instance.
var Logger *slog.Logger

func init() {
	// Sensible default so components can log before Init runs.
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Init initializes the global logger with the given level. If jsonFormat
// is true, records are emitted as JSON lines; otherwise as text.
func Init(level slog.Level, jsonFormat bool) {
	InitWithWriter(os.Stdout, level, jsonFormat)
}

// InitWithWriter initializes the global logger writing to w. Used by
// tests to capture output.
func InitWithWriter(w io.Writer, level slog.Level, jsonFormat bool) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// ParseLevel maps a level name to its slog level. Unknown names fall
// back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return Logger.With("component", name)
}
