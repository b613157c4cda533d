package app

import (
	"io"
	"log/slog"
)

// newLogger creates the launcher's slog.Logger. It does not touch the
// global logger, so each App instance keeps an isolated one writing to
// the launcher's error stream.
func newLogger(levelStr, formatStr string, errW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(errW, opts)
	} else {
		handler = slog.NewTextHandler(errW, opts)
	}
	return slog.New(handler)
}
