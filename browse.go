// ABOUTME: Interactive browse command running the terminal UI
// ABOUTME: Loads the library, starts the file watcher and hands both to the TUI

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"medialib/library"
	"medialib/logging"
	"medialib/sortkey"
	"medialib/tui"
)

var (
	browseDryRun  bool
	browseNoWatch bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the library interactively",
	Long: `Open the terminal browser with songs, albums, artists and genres pages.
Page orderings are saved to the config file on quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browseDryRun, "dry-run", false, "browse without saving preferences or writing the queue")
	browseCmd.Flags().BoolVar(&browseNoWatch, "no-watch", false, "do not watch the library for changes")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	s := current
	ctx := cmd.Context()

	// The terminal belongs to the UI, so its logs go to a file with --debug
	logger := logging.Discard()

	if debugFlag {
		fileLogger, f, err := logging.NewFile(s.cfg.LogPath, slog.LevelDebug)
		if err != nil {
			return err
		}

		defer func() { _ = f.Close() }()

		logger = fileLogger

		fmt.Printf("Debug logging enabled: %s\n", s.cfg.LogPath)
	}

	loaded, err := s.loadLibrary(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = loaded.Close() }()

	deps := tui.Dependencies{
		Library:  loaded.lib,
		Registry: sortkey.Default(),
		Reader:   loaded.scanner,
		Logger:   logger,
	}

	if s.cfg.Watch && !browseNoWatch {
		events, stop := startWatcher(ctx, s.cfg.LibraryRoot, logger)
		defer stop()

		deps.Events = events
	}

	return tui.Run(tui.Options{
		Config:     s.cfg,
		ConfigPath: s.configPath,
		DryRun:     browseDryRun,
	}, deps)
}

// startWatcher watches the library directory in the background.
// It returns a nil channel when root is not a directory or cannot be watched.
func startWatcher(ctx context.Context, root string, logger *slog.Logger) (<-chan []library.Event, func()) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, func() {}
	}

	watcher, err := library.NewWatcher(root, library.DefaultDebounce, logger)
	if err != nil {
		logger.Warn("library watcher unavailable", "root", root, "error", err)

		return nil, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("library watcher stopped", "error", err)
		}
	}()

	return watcher.Events(), func() {
		cancel()
		_ = watcher.Close()
		<-done
	}
}
