// ABOUTME: Shared initialization code for all commands (browse, list, queue)
// ABOUTME: Provides config and logger setup, library loading, and page construction

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"medialib/browse"
	"medialib/collection"
	"medialib/config"
	"medialib/library"
	"medialib/logging"
	"medialib/media"
	"medialib/sortkey"
	"medialib/store"
)

// ErrUnknownPage is returned for a page name that is not browsable
var ErrUnknownPage = errors.New("unknown page")

// session holds what every command needs once flags are parsed
type session struct {
	cfg        config.Config
	configPath string
	logger     *slog.Logger
}

// newSession loads the config and builds the command logger.
// Commands log to stderr at the configured level, debug with --debug.
func newSession(configPath, libraryRoot string, debug bool) (*session, error) {
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if libraryRoot != "" {
		cfg.LibraryRoot = libraryRoot
	}

	level := logging.LevelFromString(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}

	return &session{
		cfg:        cfg,
		configPath: configPath,
		logger:     logging.New(os.Stderr, level),
	}, nil
}

// loadedLibrary is a scanned library plus the scanner that keeps reading it
type loadedLibrary struct {
	lib     *library.Library
	scanner *library.Scanner
	cache   *store.Store
}

// Close releases the metadata cache
func (l *loadedLibrary) Close() error {
	if l.cache == nil {
		return nil
	}

	return l.cache.Close()
}

// loadLibrary scans the configured library root, using the metadata cache when it opens.
// A cache that cannot be opened is logged and skipped.
func (s *session) loadLibrary(ctx context.Context, logger *slog.Logger) (*loadedLibrary, error) {
	var cache *store.Store

	if s.cfg.CachePath != "" {
		var err error

		cache, err = store.Open(s.cfg.CachePath, logger)
		if err != nil {
			logger.Warn("metadata cache unavailable, reading every file", "path", s.cfg.CachePath, "error", err)

			cache = nil
		}
	}

	scanner := library.NewScanner(cache, s.cfg.Workers, logger)

	result, err := scanner.Scan(ctx, s.cfg.LibraryRoot)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}

		return nil, err
	}

	lib := library.New()
	lib.Load(result)

	return &loadedLibrary{lib: lib, scanner: scanner, cache: cache}, nil
}

// pageOptions are the ordering flags shared by list and queue
type pageOptions struct {
	page         string
	sort         string
	direction    string
	alphabetical bool
	search       string
}

// resolvePage validates a page name, accepting singular forms and any case
func resolvePage(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return config.PageSongs, nil
	}

	for _, page := range config.Pages {
		if name == page || name+"s" == page {
			return page, nil
		}
	}

	return "", fmt.Errorf("%w %q (expected one of %s)", ErrUnknownPage, name, strings.Join(config.Pages, ", "))
}

// sourceFor returns the library list a page projects
func sourceFor(lib *library.Library, page string) *collection.List[media.Item] {
	switch page {
	case config.PageAlbums:
		return lib.Albums
	case config.PageArtists:
		return lib.Artists
	case config.PageGenres:
		return lib.Genres
	default:
		return lib.Songs
	}
}

// openPage builds the browse collection for a page. Flags override the saved
// preferences; with no --sort the saved ordering is used as is.
func (s *session) openPage(lib *library.Library, opts pageOptions) (*browse.Collection, error) {
	page, err := resolvePage(opts.page)
	if err != nil {
		return nil, err
	}

	prefs := s.cfg.View(page)

	if opts.sort != "" {
		prefs.Sort = opts.sort
		prefs.Alphabetical = opts.alphabetical
	}

	if opts.direction != "" {
		prefs.Direction, err = collection.ParseDirection(opts.direction)
		if err != nil {
			return nil, err
		}
	}

	return browse.New(sortkey.Default(), sourceFor(lib, page), browse.Options{
		Page:         page,
		Sort:         prefs.Sort,
		Direction:    prefs.Direction,
		Alphabetical: prefs.Alphabetical,
		Query:        opts.search,
		Logger:       s.logger,
	})
}

// sortHelp lists the descriptors offered for every page
func sortHelp() string {
	var b strings.Builder

	for _, page := range config.Pages {
		fmt.Fprintf(&b, "  %s: %s\n", page, strings.Join(browse.SortOptions(page), ", "))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// findItem returns the first item of items whose text contains query
func findItem(items []media.Item, query string) (media.Item, bool) {
	i := slices.IndexFunc(items, func(item media.Item) bool { return media.Matches(item, query) })
	if i < 0 {
		return nil, false
	}

	return items[i], true
}
