// ABOUTME: Entry point for the medialib application
// ABOUTME: Runs the command tree with signal-aware cancellation and optional profiling

// Package main provides the entry point for medialib, a terminal music library browser.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close CPU profile: %v\n", err)
		}
	}, nil
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string, logger *slog.Logger) {
	f, err := os.Create(filename)
	if err != nil {
		logger.Error("could not create memory profile", "error", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close memory profile", "error", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		logger.Error("could not write memory profile", "error", err)
	}
}
