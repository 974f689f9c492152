// ABOUTME: Configuration management for the library browser
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"medialib/collection"
)

// Page names used as keys of Config.Views
const (
	PageSongs   = "songs"
	PageAlbums  = "albums"
	PageArtists = "artists"
	PageGenres  = "genres"
)

// Pages lists the browser pages in display order
var Pages = []string{PageSongs, PageAlbums, PageArtists, PageGenres}

// ViewPreferences is the remembered ordering of one page
type ViewPreferences struct {
	Sort         string               `toml:"sort"`
	Direction    collection.Direction `toml:"direction"`
	Alphabetical bool                 `toml:"alphabetical"`
}

// Config holds all medialib settings
type Config struct {
	LibraryRoot string `toml:"library_root"`
	CachePath   string `toml:"cache_path"`
	QueuePath   string `toml:"queue_path"`
	LogLevel    string `toml:"log_level"`
	LogPath     string `toml:"log_path"` // TUI debug log, written only with --debug
	Workers     int    `toml:"workers"`  // 0 means one per CPU
	Watch       bool   `toml:"watch"`

	Views map[string]ViewPreferences `toml:"views"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/medialib/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./medialib.toml"); err == nil {
		return "./medialib.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./medialib.toml"
	}

	return filepath.Join(home, ".config", "medialib", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Settings missing from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return withDefaultViews(config), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = filepath.Join(home, ".cache")
	}

	return Config{
		LibraryRoot: filepath.Join(home, "Music"),
		CachePath:   filepath.Join(cacheDir, "medialib", "songs.db"),
		QueuePath:   filepath.Join(cacheDir, "medialib", "queue.m3u8"),
		LogLevel:    "warn",
		LogPath:     filepath.Join(cacheDir, "medialib", "debug.log"),
		Workers:     0,
		Watch:       true,
		Views:       DefaultViews(),
	}
}

// DefaultViews returns the default ordering of every page
func DefaultViews() map[string]ViewPreferences {
	return map[string]ViewPreferences{
		PageSongs:   {Sort: "GSongTitle|SongTitle", Direction: collection.Ascending, Alphabetical: true},
		PageAlbums:  {Sort: "GAlbumTitle|AlbumTitle", Direction: collection.Ascending, Alphabetical: true},
		PageArtists: {Sort: "GArtistName|ArtistName", Direction: collection.Ascending, Alphabetical: true},
		PageGenres:  {Sort: "GenreName", Direction: collection.Ascending},
	}
}

// View returns the preferences of page, falling back to the default
func (c Config) View(page string) ViewPreferences {
	if prefs, ok := c.Views[page]; ok && prefs.Sort != "" {
		return prefs
	}

	return DefaultViews()[page]
}

// SetView records the preferences of page
func (c *Config) SetView(page string, prefs ViewPreferences) {
	if c.Views == nil {
		c.Views = make(map[string]ViewPreferences)
	}

	c.Views[page] = prefs
}

// withDefaultViews fills pages missing from the file with their defaults
func withDefaultViews(config Config) Config {
	for page, prefs := range DefaultViews() {
		if existing, ok := config.Views[page]; !ok || existing.Sort == "" {
			config.SetView(page, prefs)
		}
	}

	return config
}
