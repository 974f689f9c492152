// ABOUTME: Queue command building a playback queue from a page of the library
// ABOUTME: Plays from the first item matching --from in page order, or just that item with --single

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"medialib/library"
	"medialib/playback"
)

// ErrNoMatch is returned when --from matches no item of the page
var ErrNoMatch = errors.New("no item matches")

var (
	queuePage   pageOptions
	queueFrom   string
	queueSingle bool
	queueOutput string
	queueDryRun bool
)

var queueCmd = &cobra.Command{
	Use:   "queue [page]",
	Short: "Write a playback queue starting at an item",
	Long: `Build a queue from a page in its current order, starting at the first item
matching --from. Items before it move to the end. Albums, artists, genres and
playlists expand to their songs. The queue is written as an M3U8 playlist.`,
	Example: `  medialib queue albums --from "mezzanine"
  medialib queue songs --from "teardrop" --single --output /tmp/now.m3u8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQueue,
}

func init() {
	addPageFlags(queueCmd, &queuePage)
	queueCmd.Flags().StringVar(&queueFrom, "from", "", "start at the first item containing this text (default: first item)")
	queueCmd.Flags().BoolVar(&queueSingle, "single", false, "queue only the starting item")
	queueCmd.Flags().StringVarP(&queueOutput, "output", "o", "", "queue file (default: queue_path from config)")
	queueCmd.Flags().BoolVar(&queueDryRun, "dry-run", false, "print the queue instead of writing it")
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	s := current
	ctx := cmd.Context()

	if len(args) > 0 {
		queuePage.page = args[0]
	}

	loaded, err := s.loadLibrary(ctx, s.logger)
	if err != nil {
		return err
	}
	defer func() { _ = loaded.Close() }()

	if loaded.lib.Songs.Len() == 0 {
		return fmt.Errorf("%w in %s", library.ErrEmptyLibrary, s.cfg.LibraryRoot)
	}

	c, err := s.openPage(loaded.lib, queuePage)
	if err != nil {
		return err
	}
	defer c.Dispose()

	items := c.View().Items()

	start, ok := findItem(items, queueFrom)
	if !ok {
		return fmt.Errorf("%w %q on page %s", ErrNoMatch, queueFrom, c.Page())
	}

	var queue *playback.Queue
	if queueSingle {
		queue, err = playback.PlaySingle(ctx, start, loaded.lib.AllSongs())
	} else {
		queue, err = playback.PlayFrom(ctx, items, start, loaded.lib.AllSongs())
	}

	if err != nil {
		return fmt.Errorf("failed to build queue: %w", err)
	}

	out := cmd.OutOrStdout()

	if queueDryRun {
		for _, location := range queue.Locations() {
			fmt.Fprintln(out, location)
		}

		return nil
	}

	path := queueOutput
	if path == "" {
		path = s.cfg.QueuePath
	}

	if err := queue.Write(path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Queued %d items from %s to %s\n", queue.Len(), start, path)

	return nil
}
