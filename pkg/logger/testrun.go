package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output but still honours level checks.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}

// Discard returns an info-level logger that writes nowhere.
func Discard() *slog.Logger {
	return slog.New(NewTestHandler(slog.LevelInfo))
}
