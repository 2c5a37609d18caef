// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
)

// New creates a text logger writing to w. Debug enables the diagnostic
// level used for resolution traces; the default level keeps the
// terminal quiet while the shell owns the screen.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
