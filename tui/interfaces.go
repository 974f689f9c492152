// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import (
	"context"

	"medialib/library"
	"medialib/media"
)

// SongReader reads songs that appear while browsing
type SongReader interface {
	ReadOne(ctx context.Context, path string) (*media.Song, error)
	Forget(ctx context.Context, path string) error
}

// LibraryChange is a batch of watcher events with the added songs already read
type LibraryChange struct {
	Added   []*media.Song
	Removed []string
	Failed  int // added files whose tags could not be read
}

// readChange resolves a watcher batch into a LibraryChange
func readChange(ctx context.Context, reader SongReader, batch []library.Event) LibraryChange {
	var change LibraryChange

	for _, event := range batch {
		switch event.Kind {
		case library.Added:
			song, err := reader.ReadOne(ctx, event.Path)
			if err != nil {
				change.Failed++

				continue
			}

			change.Added = append(change.Added, song)

		case library.Removed:
			_ = reader.Forget(ctx, event.Path)
			change.Removed = append(change.Removed, event.Path)
		}
	}

	return change
}
