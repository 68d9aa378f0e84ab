package lib

import (
	"io"
	"log/slog"
)

// NewLogger creates a text logger for diagnostics. Command results are
// printed separately and never go through the logger.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	})

	return slog.New(handler)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, slog.LevelError)
}
