// ABOUTME: Tests for listing construction and output formats
// ABOUTME: Validates durations, group sections, and table, JSON and YAML output

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"medialib/config"
	"medialib/media"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: ""},
		{name: "seconds", d: 9 * time.Second, want: "0:09"},
		{name: "minutes", d: 5*time.Minute + 31*time.Second, want: "5:31"},
		{name: "rounds", d: 3*time.Minute + 59*time.Second + 600*time.Millisecond, want: "4:00"},
		{name: "hours", d: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewListing(t *testing.T) {
	lib := createTestLibrary()
	s := createTestSession()

	c, err := s.openPage(lib, pageOptions{page: "songs"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	l := newListing(c)

	if l.Page != config.PageSongs || l.Count != 4 {
		t.Errorf("Expected songs page with 4 items, got %s with %d", l.Page, l.Count)
	}

	// Letter groups without songs are left out
	var headers []string
	for _, sec := range l.Sections {
		headers = append(headers, sec.Header)
	}

	if got := strings.Join(headers, " "); got != "A G R T" {
		t.Errorf("Expected sections A G R T, got %s", got)
	}

	first := l.Sections[0].Items[0]
	if first.Title != "Angel" || first.Artist != "Massive Attack" || first.Year != 1998 {
		t.Errorf("Expected Angel record, got %+v", first)
	}
}

func TestNewListingUngrouped(t *testing.T) {
	lib := createTestLibrary()
	s := createTestSession()

	c, err := s.openPage(lib, pageOptions{page: "albums", sort: "AlbumYear"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	l := newListing(c)

	if len(l.Sections) != 1 || l.Sections[0].Header != "" {
		t.Fatalf("Expected one unnamed section, got %+v", l.Sections)
	}

	items := l.Sections[0].Items
	if len(items) != 2 || items[0].Title != "Dummy" || items[0].Songs != 2 {
		t.Errorf("Expected Dummy first with 2 songs, got %+v", items)
	}
}

func TestRecordOf(t *testing.T) {
	song := newSong("Roads", "Portishead", "Dummy", 1994)
	song.Length = 5*time.Minute + 5*time.Second

	pl := media.NewPlaylist("/music/mix.m3u8")
	pl.Title = "mix"
	pl.Entries = []string{song.Location}

	tests := []struct {
		name string
		item media.Item
		want record
	}{
		{
			name: "song",
			item: song,
			want: record{Kind: "song", Title: "Roads", Artist: "Portishead", Album: "Dummy", Year: 1994, Length: "5:05", Location: song.Location},
		},
		{
			name: "playlist",
			item: pl,
			want: record{Kind: "playlist", Title: "mix", Songs: 1, Location: "/music/mix.m3u8"},
		},
		{
			name: "artist",
			item: media.NewArtist("Portishead"),
			want: record{Kind: "artist", Title: "Portishead"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordOf(tt.item)
			got.Genres = nil

			if got.Kind != tt.want.Kind || got.Title != tt.want.Title || got.Artist != tt.want.Artist ||
				got.Album != tt.want.Album || got.Year != tt.want.Year || got.Length != tt.want.Length ||
				got.Songs != tt.want.Songs || got.Location != tt.want.Location {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestWriteListing(t *testing.T) {
	l := listing{
		Page:      config.PageSongs,
		Sort:      "GSongTitle|SongTitle",
		Direction: "ascending",
		Count:     1,
		Sections: []section{{
			Header: "R",
			Items:  []record{{Kind: "song", Title: "Roads", Artist: "Portishead", Album: "Dummy", Year: 1994, Length: "5:05"}},
		}},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeListing(&buf, l, FormatTable); err != nil {
			t.Fatal(err)
		}

		out := buf.String()
		for _, want := range []string{"Title", "[R]", "Roads", "Portishead", "1994", "5:05"} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected table to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeListing(&buf, l, FormatJSON); err != nil {
			t.Fatal(err)
		}

		var got listing
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}

		if got.Count != 1 || got.Sections[0].Items[0].Title != "Roads" {
			t.Errorf("Expected Roads listing, got %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeListing(&buf, l, FormatYAML); err != nil {
			t.Fatal(err)
		}

		var got listing
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Invalid YAML: %v", err)
		}

		if got.Sort != l.Sort || got.Sections[0].Header != "R" {
			t.Errorf("Expected listing sorted by %s, got %+v", l.Sort, got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := writeListing(&bytes.Buffer{}, l, "xml"); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{in: "Roads", maxLen: 10, want: "Roads"},
		{in: "Massive Attack", maxLen: 10, want: "Massive..."},
		{in: "Sigur Rós Ágætis byrjun", maxLen: 12, want: "Sigur Rós..."},
		{in: "Dummy", maxLen: 3, want: "Dum"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
