// ABOUTME: Loads songs and playlists from a directory tree or an M3U8 file
// ABOUTME: Reads tags in parallel on a worker pool and consults the SQLite cache first

// Package library loads the music library and keeps its item lists current.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"medialib/media"
	"medialib/playlist"
	"medialib/pool"
	"medialib/store"
)

// ErrEmptyLibrary is returned when a scan finds nothing to browse
var ErrEmptyLibrary = errors.New("no songs found")

// ScanResult is the outcome of a scan
type ScanResult struct {
	Songs     []*media.Song
	Playlists []*media.Playlist
	Skipped   int // files whose tags could not be read
	Cached    int // songs served from the cache
}

// Scanner reads song metadata, using a cache when one is configured
type Scanner struct {
	cache   *store.Store
	workers int
	logger  *slog.Logger
}

// NewScanner creates a scanner. cache may be nil; workers <= 0 means one per CPU.
func NewScanner(cache *store.Store, workers int, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Scanner{cache: cache, workers: workers, logger: logger}
}

// Scan loads root, which is either a directory or a playlist file
func (s *Scanner) Scan(ctx context.Context, root string) (ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to open library: %w", err)
	}

	if !info.IsDir() {
		return s.ScanPlaylist(ctx, root)
	}

	return s.ScanDir(ctx, root)
}

// ScanDir walks root for audio files and playlists
func (s *Scanner) ScanDir(ctx context.Context, root string) (ScanResult, error) {
	var (
		audio     []string
		playlists []string
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}

			return ctx.Err()
		}

		switch {
		case media.IsAudioFile(path):
			audio = append(audio, path)
		case playlist.IsPlaylistFile(path):
			playlists = append(playlists, path)
		}

		return nil
	})
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to walk library: %w", err)
	}

	result, err := s.readAll(ctx, audio)
	if err != nil {
		return ScanResult{}, err
	}

	for _, path := range playlists {
		pl, err := playlist.Load(path)
		if err != nil {
			s.logger.Warn("skipping playlist", "path", path, "error", err)

			continue
		}

		result.Playlists = append(result.Playlists, pl)
	}

	s.logger.Info("library scanned",
		"root", root,
		"songs", len(result.Songs),
		"playlists", len(result.Playlists),
		"cached", result.Cached,
		"skipped", result.Skipped,
	)

	return result, nil
}

// ScanPlaylist loads the songs listed in an M3U8 file
func (s *Scanner) ScanPlaylist(ctx context.Context, path string) (ScanResult, error) {
	pl, err := playlist.Load(path)
	if err != nil {
		return ScanResult{}, err
	}

	result, err := s.readAll(ctx, pl.Entries)
	if err != nil {
		return ScanResult{}, err
	}

	result.Playlists = []*media.Playlist{pl}

	return result, nil
}

// ReadOne reads a single song, through the cache
func (s *Scanner) ReadOne(ctx context.Context, path string) (*media.Song, error) {
	song, _, err := s.read(ctx, path)

	return song, err
}

// Forget drops path from the cache
func (s *Scanner) Forget(ctx context.Context, path string) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Delete(ctx, path)
}

// readResult is the outcome of reading one song
type readResult struct {
	song   *media.Song
	cached bool
	err    error
}

// readAll reads paths on a worker pool, keeping their order
func (s *Scanner) readAll(ctx context.Context, paths []string) (ScanResult, error) {
	results, err := pool.Map(ctx, s.workers, paths, func(ctx context.Context, path string) readResult {
		song, cached, err := s.read(ctx, path)

		return readResult{song: song, cached: cached, err: err}
	})
	if err != nil {
		return ScanResult{}, err
	}

	var result ScanResult

	for i, r := range results {
		if r.err != nil {
			s.logger.Debug("skipping song", "path", paths[i], "error", r.err)
			result.Skipped++

			continue
		}

		result.Songs = append(result.Songs, r.song)

		if r.cached {
			result.Cached++
		}
	}

	return result, nil
}

func (s *Scanner) read(ctx context.Context, path string) (*media.Song, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat song: %w", err)
	}

	if s.cache != nil {
		song, ok, err := s.cache.Get(ctx, abs, info.ModTime())
		if err != nil {
			s.logger.Warn("song cache lookup failed", "path", abs, "error", err)
		} else if ok {
			return song, true, nil
		}
	}

	song, err := media.ReadSong(abs)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, song, info.ModTime()); err != nil {
			s.logger.Warn("failed to cache song", "path", abs, "error", err)
		}
	}

	return song, false, nil
}
