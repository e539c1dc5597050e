// Package logging configures the process-wide slog logger. The CLI is the
// only writer of user-facing output; diagnostics go through slog to stderr
// and stay quiet unless --verbose raises the level.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs the global slog default. Level is one of "debug", "info",
// "warn", or "error" (unknown values mean warn); format is "text" or
// "json". A nil w writes to os.Stderr.
func Init(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a logger tagged with the originating component ("git",
// "store", "gerrit", ...).
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
