// ABOUTME: Reads song metadata directly from audio file tags
// ABOUTME: Supports ID3, MP4, FLAC and Vorbis through dhowden/tag

package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// ErrNotAudio is returned for files whose extension is not a known audio format
var ErrNotAudio = errors.New("not an audio file")

var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".alac": true,
}

// IsAudioFile reports whether path has an audio extension
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadSong reads the tags of the audio file at path.
// Missing titles fall back to the file name.
func ReadSong(path string) (*Song, error) {
	if !IsAudioFile(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAudio)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	song := NewSong(abs)
	song.Title = strings.TrimSpace(metadata.Title())
	song.Artist = strings.TrimSpace(metadata.Artist())
	song.AlbumArtist = strings.TrimSpace(metadata.AlbumArtist())
	song.Album = strings.TrimSpace(metadata.Album())
	song.Genres = SplitGenres(metadata.Genre())
	song.Year = metadata.Year()
	song.Track, _ = metadata.Track()
	song.Disc, _ = metadata.Disc()

	if song.Title == "" {
		song.Title = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}

	if raw := metadata.Raw(); raw != nil {
		song.Rating = rawInt(raw, "POPM", "rating", "RATING")
		song.Bitrate = rawInt(raw, "bitrate", "BITRATE")
	}

	return song, nil
}

// SplitGenres splits a genre tag holding several genres separated by semicolons
func SplitGenres(value string) []string {
	var genres []string

	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			genres = append(genres, part)
		}
	}

	return genres
}

// rawInt returns the first numeric value found under any of the raw tag names
func rawInt(raw map[string]any, names ...string) int {
	for _, name := range names {
		val, exists := raw[name]
		if !exists {
			continue
		}

		switch v := val.(type) {
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		case int:
			return v
		case float64:
			return int(v)
		case *tag.Comm:
			if n, err := strconv.Atoi(strings.TrimSpace(v.Text)); err == nil {
				return n
			}
		}
	}

	return 0
}
