// ABOUTME: Tests for session setup, page resolution and page construction
// ABOUTME: Uses an in-memory library so no audio files are needed

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"medialib/collection"
	"medialib/config"
	"medialib/library"
	"medialib/logging"
	"medialib/media"
)

func newSong(title, artist, album string, year int) *media.Song {
	song := media.NewSong("/music/" + artist + "/" + album + "/" + title + ".mp3")
	song.Title = title
	song.Artist = artist
	song.AlbumArtist = artist
	song.Album = album
	song.Year = year
	song.Genres = []string{"Trip Hop"}

	return song
}

// createTestLibrary creates a library of two albums
func createTestLibrary() *library.Library {
	lib := library.New()
	lib.Load(library.ScanResult{Songs: []*media.Song{
		newSong("Angel", "Massive Attack", "Mezzanine", 1998),
		newSong("Teardrop", "Massive Attack", "Mezzanine", 1998),
		newSong("Roads", "Portishead", "Dummy", 1994),
		newSong("Glory Box", "Portishead", "Dummy", 1994),
	}})

	return lib
}

func createTestSession() *session {
	return &session{cfg: config.DefaultConfig(), logger: logging.Discard()}
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: config.PageSongs},
		{name: "albums", want: config.PageAlbums},
		{name: "Artist", want: config.PageArtists},
		{name: " genres ", want: config.PageGenres},
		{name: "videos", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePage(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPage) {
					t.Errorf("Expected ErrUnknownPage, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medialib.toml")

	cfg := config.DefaultConfig()
	cfg.LibraryRoot = "/srv/music"
	cfg.LogLevel = "error"

	if err := config.SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	s, err := newSession(path, "", false)
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}

	if s.cfg.LibraryRoot != "/srv/music" {
		t.Errorf("Expected library root from file, got %s", s.cfg.LibraryRoot)
	}

	if s.logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Expected warnings filtered at error level")
	}

	s, err = newSession(path, "/tmp/other", true)
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}

	if s.cfg.LibraryRoot != "/tmp/other" {
		t.Errorf("Expected --library override, got %s", s.cfg.LibraryRoot)
	}

	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug logging with --debug")
	}
}

func TestOpenPage(t *testing.T) {
	lib := createTestLibrary()
	s := createTestSession()

	tests := []struct {
		name      string
		opts      pageOptions
		wantSort  string
		wantDir   collection.Direction
		wantCount int
	}{
		{
			name:      "saved preferences",
			opts:      pageOptions{page: "songs"},
			wantSort:  config.DefaultViews()[config.PageSongs].Sort,
			wantCount: 4,
		},
		{
			name:      "sort and direction flags",
			opts:      pageOptions{page: "albums", sort: "AlbumYear|AlbumTitle", direction: "desc"},
			wantSort:  "AlbumYear|AlbumTitle",
			wantDir:   collection.Descending,
			wantCount: 2,
		},
		{
			name:      "search",
			opts:      pageOptions{page: "songs", search: "portishead"},
			wantSort:  config.DefaultViews()[config.PageSongs].Sort,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := s.openPage(lib, tt.opts)
			if err != nil {
				t.Fatalf("openPage failed: %v", err)
			}
			defer c.Dispose()

			prefs := c.Preferences()
			if prefs.Sort != tt.wantSort {
				t.Errorf("Expected sort %s, got %s", tt.wantSort, prefs.Sort)
			}

			if prefs.Direction != tt.wantDir {
				t.Errorf("Expected direction %s, got %s", tt.wantDir, prefs.Direction)
			}

			if got := c.View().Len(); got != tt.wantCount {
				t.Errorf("Expected %d items, got %d", tt.wantCount, got)
			}
		})
	}
}

func TestOpenPageErrors(t *testing.T) {
	lib := createTestLibrary()
	s := createTestSession()

	if _, err := s.openPage(lib, pageOptions{page: "videos"}); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("Expected ErrUnknownPage, got %v", err)
	}

	if _, err := s.openPage(lib, pageOptions{direction: "sideways"}); !errors.Is(err, collection.ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}

	if _, err := s.openPage(lib, pageOptions{sort: "SongMood"}); err == nil {
		t.Error("Expected error for unknown sort key")
	}
}

func TestFindItem(t *testing.T) {
	lib := createTestLibrary()
	items := lib.Songs.Items()

	item, ok := findItem(items, "")
	if !ok || item != items[0] {
		t.Errorf("Expected empty query to pick the first item, got %v", item)
	}

	item, ok = findItem(items, "ROADS")
	if !ok || item.(*media.Song).Title != "Roads" {
		t.Errorf("Expected Roads, got %v", item)
	}

	if _, ok := findItem(items, "unfindable"); ok {
		t.Error("Expected no match")
	}
}

func TestLoadLibrary(t *testing.T) {
	root := t.TempDir()

	// A playlist is picked up even when no audio file is readable
	if err := os.WriteFile(filepath.Join(root, "mix.m3u8"), []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := createTestSession()
	s.cfg.LibraryRoot = root
	s.cfg.CachePath = filepath.Join(t.TempDir(), "cache", "songs.db")

	loaded, err := s.loadLibrary(context.Background(), logging.Discard())
	if err != nil {
		t.Fatalf("loadLibrary failed: %v", err)
	}
	defer func() { _ = loaded.Close() }()

	if loaded.cache == nil {
		t.Error("Expected metadata cache opened")
	}

	if loaded.lib.Songs.Len() != 0 {
		t.Errorf("Expected no songs, got %d", loaded.lib.Songs.Len())
	}

	if len(loaded.lib.Playlists()) != 1 {
		t.Errorf("Expected 1 playlist, got %d", len(loaded.lib.Playlists()))
	}

	s.cfg.LibraryRoot = filepath.Join(root, "missing")
	if _, err := s.loadLibrary(context.Background(), logging.Discard()); err == nil {
		t.Error("Expected error for missing library root")
	}
}
