// File: internal/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger installs a charm log handler behind slog as the process default.
// Logs go to stderr so command output on stdout stays pipeable.
func NewLogger(debug bool) *slog.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
		TimeFunction:    log.NowUTC,
		ReportCaller:    debug,
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}
