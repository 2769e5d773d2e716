// Package telemetry sets up logging and the Prometheus metrics of a run.
package telemetry

import (
	"io"
	"log/slog"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// InitLogger installs and returns the default logger. Anything other than
// FormatJSON selects the text handler.
func InitLogger(w io.Writer, debug bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LogError logs msg at error level with err attached.
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}
