// ABOUTME: Handles reading and writing M3U8 playlist files
// ABOUTME: Resolves relative entries against the playlist directory and backs up files before overwriting

// Package playlist handles M3U8 playlist files.
// It reads playlists into media.Playlist items and writes play queues back to disk.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"medialib/media"
)

// titleDirective names a playlist inside the file (extended M3U)
const titleDirective = "#PLAYLIST:"

// Entry is one playlist line
type Entry struct {
	Path     string // as written in the playlist
	Location string // absolute path, resolved against the playlist directory
}

// ReadPlaylist reads the entries of an M3U8 playlist file
func ReadPlaylist(path string) ([]Entry, error) {
	entries, _, err := read(path)

	return entries, err
}

// Load reads a playlist file as a media item. The title comes from a
// #PLAYLIST: directive, falling back to the file name.
func Load(path string) (*media.Playlist, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist path: %w", err)
	}

	entries, title, err := read(abs)
	if err != nil {
		return nil, err
	}

	pl := media.NewPlaylist(abs)
	pl.Title = title

	if pl.Title == "" {
		pl.Title = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}

	for _, entry := range entries {
		pl.Entries = append(pl.Entries, entry.Location)
	}

	return pl, nil
}

// IsPlaylistFile reports whether path has an M3U extension
func IsPlaylistFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".m3u" || ext == ".m3u8"
}

func read(path string) ([]Entry, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	baseDir := filepath.Dir(path)

	var (
		entries []Entry
		title   string
	)

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, titleDirective) {
			title = strings.TrimSpace(strings.TrimPrefix(line, titleDirective))

			continue
		}

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		location := filepath.FromSlash(line)
		if !filepath.IsAbs(location) {
			location = filepath.Join(baseDir, location)
		}

		entries = append(entries, Entry{Path: line, Location: location})
	}

	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("error reading playlist: %w", err)
	}

	return entries, title, nil
}

// WritePlaylist writes one location per line to an M3U8 playlist file.
// Creates a backup (.bak) of the existing file before overwriting.
func WritePlaylist(path string, locations []string) (err error) {
	// Create backup if file exists
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	for _, location := range locations {
		if _, err := writer.WriteString(location + "\n"); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
