// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file the TUI writes inside LOG_DIR.
const FileName = "tally.log"

// ParseLevel maps a LOG_LEVEL value (debug, info, warn, error) onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}

// New returns a text logger writing to w and tagging every record with component.
func New(w io.Writer, level slog.Level, component string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(handler).With("component", component)
}

// Setup installs a logger for component as the slog default. An unknown
// level falls back to info and is reported through the new logger.
func Setup(w io.Writer, levelName, component string) *slog.Logger {
	level, err := ParseLevel(levelName)

	logger := New(w, level, component)
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn("falling back to info logging", "error", err)
	}

	return logger
}

// OpenFile opens the append-only log file inside dir. The caller closes it.
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return f, nil
}
