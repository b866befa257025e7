package logging

import (
	"io"
	"log/slog"
	"strings"

	"library-desk/internal/platform/config"
)

// New builds the process logger. Console mode writes prompts to stdout, so the
// caller passes stderr here to keep the two streams apart.
func New(w io.Writer, c config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(c.Level)}

	var h slog.Handler
	if strings.EqualFold(c.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard is used by services constructed without a logger and by tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
