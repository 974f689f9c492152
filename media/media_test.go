// ABOUTME: Tests for media items, aggregation and search matching
// ABOUTME: Verifies stable IDs, derived album/artist/genre totals and membership

package media

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func song(title, artist, album string, genres ...string) *Song {
	s := NewSong("/music/" + artist + "/" + album + "/" + title + ".mp3")
	s.Title = title
	s.Artist = artist
	s.Album = album
	s.Genres = genres

	return s
}

// TestIDsAreStable verifies items derive the same ID from the same identity
func TestIDsAreStable(t *testing.T) {
	if NewSong("/a.mp3").ID() != NewSong("/a.mp3").ID() {
		t.Error("Expected equal song IDs for the same location")
	}

	if NewSong("/a.mp3").ID() == NewSong("/b.mp3").ID() {
		t.Error("Expected different song IDs for different locations")
	}

	if NewAlbum("Artist", "Album").ID() != NewAlbum("artist", "ALBUM").ID() {
		t.Error("Expected album IDs to ignore case")
	}

	if NewArtist("x").ID() == NewGenre("x").ID() {
		t.Error("Expected IDs to differ across kinds")
	}
}

// TestAggregate verifies albums, artists and genres are derived from songs
func TestAggregate(t *testing.T) {
	a1 := song("One", "Alpha", "First", "Rock")
	a2 := song("Two", "Alpha", "First", "rock", "Indie")
	a3 := song("Three", "Alpha", "Second")
	b1 := song("Four", "Beta", "")
	b1.Year = 1999
	a1.Year = 2004
	a2.Year = 2001

	agg := Aggregate([]*Song{a1, a2, a3, b1})

	if len(agg.Albums) != 2 {
		t.Fatalf("Expected 2 albums, got %d", len(agg.Albums))
	}

	first := agg.Albums[0]
	if first.Title != "First" || first.SongCount != 2 || first.Year != 2001 {
		t.Errorf("Unexpected first album: %+v", first)
	}

	if !slices.Equal(first.Genres, []string{"Rock", "Indie"}) {
		t.Errorf("Expected album genres [Rock Indie], got %v", first.Genres)
	}

	if len(agg.Artists) != 2 {
		t.Fatalf("Expected 2 artists, got %d", len(agg.Artists))
	}

	if alpha := agg.Artists[0]; alpha.SongCount != 3 || alpha.AlbumCount != 2 {
		t.Errorf("Expected Alpha with 3 songs on 2 albums, got %+v", alpha)
	}

	if len(agg.Genres) != 2 || agg.Genres[0].SongCount != 2 {
		t.Errorf("Expected Rock (2) and Indie, got %v", agg.Genres)
	}
}

// TestBelongsTo verifies song membership in derived items
func TestBelongsTo(t *testing.T) {
	s := song("One", "Alpha", "First", "Rock")
	s.AlbumArtist = "Various"

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"itself", s, true},
		{"other song", song("Two", "Alpha", "First"), false},
		{"album under album artist", NewAlbum("Various", "first"), true},
		{"album under track artist", NewAlbum("Alpha", "First"), false},
		{"track artist", NewArtist("alpha"), true},
		{"album artist", NewArtist("Various"), true},
		{"genre", NewGenre("rock"), true},
		{"other genre", NewGenre("Jazz"), false},
		{"playlist", &Playlist{Entries: []string{s.Location}}, true},
		{"video", NewVideo("/v.mkv"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BelongsTo(s, tt.item); got != tt.want {
				t.Errorf("BelongsTo(%v) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

// TestMatches verifies case-insensitive search over display fields
func TestMatches(t *testing.T) {
	s := song("Blue Monday", "New Order", "Power", "Synthpop")

	tests := []struct {
		query string
		item  Item
		want  bool
	}{
		{"", s, true},
		{"monday", s, true},
		{"ORDER", s, true},
		{"synth", s, true},
		{"joy division", s, false},
		{"power", NewAlbum("New Order", "Power, Corruption & Lies"), true},
		{"order", NewArtist("New Order"), true},
		{"jazz", NewGenre("Rock"), false},
		{"electronic", s, true},
		{"Drum and Bass", song("Shake Ur Body", "Shy FX", "Shake Ur Body", "Neurofunk"), true},
		{"electronic", NewGenre("Deep House"), true},
		{"rock", NewGenre("Deep House"), false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Matches(tt.item, tt.query); got != tt.want {
				t.Errorf("Matches(%v, %q) = %v, want %v", tt.item, tt.query, got, tt.want)
			}
		})
	}
}

// TestGenreFamily verifies genres resolve to their top-level family
func TestGenreFamily(t *testing.T) {
	tests := []struct {
		genre string
		want  string
	}{
		{"Neurofunk", "Electronic"},
		{"drum and bass", "Electronic"},
		{"  thrash metal ", "Rock"},
		{"r&b", "Funk / Soul"},
		{"rock", "Rock"},
		{"polka", "Polka"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.genre, func(t *testing.T) {
			if got := GenreFamily(tt.genre); got != tt.want {
				t.Errorf("GenreFamily(%q) = %q, want %q", tt.genre, got, tt.want)
			}
		})
	}
}

// TestIsSubGenre verifies ancestry checks
func TestIsSubGenre(t *testing.T) {
	if !IsSubGenre("liquid funk", "Electronic") {
		t.Error("Expected liquid funk to descend from electronic")
	}

	if IsSubGenre("rock", "rock") {
		t.Error("Expected a genre not to be its own sub-genre")
	}

	if IsSubGenre("house", "rock") {
		t.Error("Expected house not to descend from rock")
	}
}

// TestSplitGenres verifies multi-value genre tags
func TestSplitGenres(t *testing.T) {
	got := SplitGenres(" Rock; Indie ;;Pop ")
	if !slices.Equal(got, []string{"Rock", "Indie", "Pop"}) {
		t.Errorf("Expected [Rock Indie Pop], got %v", got)
	}

	if SplitGenres("") != nil {
		t.Error("Expected no genres for an empty tag")
	}
}

// TestReadSongErrors verifies unreadable files are reported
func TestReadSongErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadSong(filepath.Join(dir, "notes.txt")); !errors.Is(err, ErrNotAudio) {
		t.Errorf("Expected ErrNotAudio, got %v", err)
	}

	if _, err := ReadSong(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("Expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.mp3")
	if err := os.WriteFile(garbage, []byte("not really audio"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSong(garbage); err == nil {
		t.Error("Expected error for a file without tags")
	}
}

// TestKindString verifies kind names
func TestKindString(t *testing.T) {
	if KindAlbum.String() != "album" || Kind(42).String() != "kind(42)" {
		t.Errorf("Unexpected kind names: %s, %s", KindAlbum, Kind(42))
	}
}
