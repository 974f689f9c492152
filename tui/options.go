// ABOUTME: TUI mode configuration and dependencies
// ABOUTME: Defines input parameters for running the browser

package tui

import (
	"log/slog"

	"medialib/config"
	"medialib/library"
	"medialib/sortkey"
)

// Options contains configuration for running the TUI
type Options struct {
	Config     config.Config // Page preferences, queue path
	ConfigPath string        // Where preferences are saved on quit
	DryRun     bool          // If true, don't save preferences or write the queue
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Library  *library.Library
	Registry *sortkey.Registry
	Reader   SongReader             // nil disables applying watcher events
	Events   <-chan []library.Event // nil without a watcher
	Logger   *slog.Logger
}
