// ABOUTME: Watches the library directories for added and removed audio files
// ABOUTME: Coalesces bursts of filesystem events into one debounced batch

package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"medialib/media"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 100 * time.Millisecond

// EventKind says what happened to a file
type EventKind int

const (
	Added EventKind = iota
	Removed
)

func (k EventKind) String() string {
	if k == Removed {
		return "removed"
	}

	return "added"
}

// Event reports an audio file that appeared, changed or disappeared
type Event struct {
	Kind EventKind
	Path string
}

// Watcher reports audio file changes below a root directory
type Watcher struct {
	fs       *fsnotify.Watcher
	events   chan []Event
	debounce time.Duration
	logger   *slog.Logger

	// owned by Run once it starts
	dirs  map[string]struct{}
	songs map[string]struct{}
}

// NewWatcher watches root and every directory below it
func NewWatcher(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		events:   make(chan []Event),
		debounce: debounce,
		logger:   logger,
		dirs:     make(map[string]struct{}),
		songs:    make(map[string]struct{}),
	}

	if err := w.addTree(root, nil); err != nil {
		_ = fsw.Close()

		return nil, err
	}

	return w, nil
}

// Events delivers debounced batches, ordered by path
func (w *Watcher) Events() <-chan []Event {
	return w.events
}

// Run forwards filesystem events until ctx is done or the watcher is closed.
// The events channel is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	pending := make(map[string]EventKind)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			w.record(pending, event)

			if len(pending) > 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			// Log error but continue watching
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			batch := flush(pending)

			select {
			case w.events <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// record folds one fsnotify event into pending; the last operation on a path wins
func (w *Watcher) record(pending map[string]EventKind, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Files can land in a new directory before it is watched
			if err := w.addTree(event.Name, pending); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}

			return
		}

		if media.IsAudioFile(event.Name) {
			w.songs[event.Name] = struct{}{}
			pending[event.Name] = Added
		}

	case event.Has(fsnotify.Write):
		if media.IsAudioFile(event.Name) {
			w.songs[event.Name] = struct{}{}
			pending[event.Name] = Added
		}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, ok := w.dirs[event.Name]; ok {
			w.removeTree(event.Name, pending)

			return
		}

		if media.IsAudioFile(event.Name) {
			delete(w.songs, event.Name)
			pending[event.Name] = Removed
		}
	}
}

// removeTree records every known song below a vanished directory as removed
// and forgets the directories under it
func (w *Watcher) removeTree(dir string, pending map[string]EventKind) {
	prefix := dir + string(filepath.Separator)

	for path := range w.songs {
		if strings.HasPrefix(path, prefix) {
			delete(w.songs, path)
			pending[path] = Removed
		}
	}

	for path := range w.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			delete(w.dirs, path)
			_ = w.fs.Remove(path)
		}
	}
}

// addTree watches root and its subdirectories. Audio files found on the way
// are recorded in pending when it is not nil.
func (w *Watcher) addTree(root string, pending map[string]EventKind) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}

			if err := w.fs.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}

			w.dirs[path] = struct{}{}

			return nil
		}

		if !media.IsAudioFile(path) {
			return nil
		}

		w.songs[path] = struct{}{}

		if pending != nil {
			pending[path] = Added
		}

		return nil
	})
}

func flush(pending map[string]EventKind) []Event {
	batch := make([]Event, 0, len(pending))
	for path, kind := range pending {
		batch = append(batch, Event{Kind: kind, Path: path})
	}

	clear(pending)

	slices.SortFunc(batch, func(a, b Event) int { return strings.Compare(a.Path, b.Path) })

	return batch
}
