// ABOUTME: Logger construction for the CLI and the terminal UI
// ABOUTME: Text handlers on stderr for commands, an append-only file for TUI debug output

// Package logging builds the slog loggers used across medialib.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a text logger writing to w at level
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFile creates a logger appending to the file at path.
// The caller closes the returned file.
func NewFile(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(f, level), f, nil
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString converts debug, info, warn or error (any case) to a level.
// Unrecognized strings return slog.LevelInfo.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
