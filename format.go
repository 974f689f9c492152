// ABOUTME: Output formats for listing pages: aligned table, JSON and YAML
// ABOUTME: Flattens a grouped view into records with per-kind columns

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"medialib/browse"
	"medialib/config"
	"medialib/media"
	"medialib/sortkey"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// record is one listed item
type record struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Title    string   `json:"title" yaml:"title"`
	Artist   string   `json:"artist,omitempty" yaml:"artist,omitempty"`
	Album    string   `json:"album,omitempty" yaml:"album,omitempty"`
	Genres   []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	Length   string   `json:"length,omitempty" yaml:"length,omitempty"`
	Songs    int      `json:"songs,omitempty" yaml:"songs,omitempty"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
}

// section is one group of a listing; ungrouped pages have a single unnamed section
type section struct {
	Header string   `json:"header,omitempty" yaml:"header,omitempty"`
	Items  []record `json:"items" yaml:"items"`
}

// listing is a page rendered for output
type listing struct {
	Page      string    `json:"page" yaml:"page"`
	Sort      string    `json:"sort" yaml:"sort"`
	Direction string    `json:"direction" yaml:"direction"`
	Query     string    `json:"query,omitempty" yaml:"query,omitempty"`
	Count     int       `json:"count" yaml:"count"`
	Sections  []section `json:"sections" yaml:"sections"`
}

// newListing flattens the collection's view. Empty groups are left out.
func newListing(c *browse.Collection) listing {
	view := c.View()
	prefs := c.Preferences()

	l := listing{
		Page:      c.Page(),
		Sort:      prefs.Sort,
		Direction: prefs.Direction.String(),
		Query:     c.Query(),
		Count:     view.Len(),
	}

	if !view.IsGrouped() {
		s := section{Items: make([]record, 0, view.Len())}
		for _, item := range view.Items() {
			s.Items = append(s.Items, recordOf(item))
		}

		l.Sections = []section{s}

		return l
	}

	for _, g := range view.Groups() {
		if g.Len() == 0 {
			continue
		}

		s := section{Header: headerOf(g.Key()), Items: make([]record, 0, g.Len())}
		for _, item := range g.Items() {
			s.Items = append(s.Items, recordOf(item))
		}

		l.Sections = append(l.Sections, s)
	}

	return l
}

func headerOf(key any) string {
	switch k := key.(type) {
	case nil:
		return "(none)"
	case sortkey.Label:
		return string(k)
	case string:
		if k == "" {
			return "(none)"
		}

		return k
	case int:
		if k == 0 {
			return "(none)"
		}

		return strconv.Itoa(k)
	default:
		return fmt.Sprint(k)
	}
}

// recordOf converts an item into its output record
func recordOf(item media.Item) record {
	r := record{Kind: item.Kind().String(), Title: item.String()}

	switch it := item.(type) {
	case *media.Song:
		r.Title = it.Title
		r.Artist = it.DisplayArtist()
		r.Album = it.Album
		r.Genres = it.Genres
		r.Year = it.Year
		r.Length = formatDuration(it.Length)
		r.Location = it.Location
	case *media.Album:
		r.Title = it.Title
		r.Artist = it.Artist
		r.Genres = it.Genres
		r.Year = it.Year
		r.Length = formatDuration(it.Length)
		r.Songs = it.SongCount
	case *media.Artist:
		r.Songs = it.SongCount
	case *media.Genre:
		r.Songs = it.SongCount
	case *media.Video:
		r.Year = it.Year
		r.Length = formatDuration(it.Length)
		r.Location = it.Location
	case *media.Playlist:
		r.Songs = len(it.Entries)
		r.Location = it.Location
	}

	return r
}

// formatDuration renders a length as m:ss, or h:mm:ss from one hour on.
// Zero lengths render empty.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	total := int(d.Round(time.Second).Seconds())
	h, m, s := total/3600, total/60%60, total%60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}

// writeListing writes l to w in format
func writeListing(w io.Writer, l listing, format OutputFormat) error {
	switch format {
	case FormatTable:
		return writeTable(w, l)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeTable writes an aligned table with a header line per group
func writeTable(w io.Writer, l listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	columns := tableColumns(l.Page)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	fmt.Fprintln(tw, strings.Join(underline(columns), "\t"))

	for _, s := range l.Sections {
		if s.Header != "" {
			fmt.Fprintf(tw, "[%s]\n", s.Header)
		}

		for _, r := range s.Items {
			fmt.Fprintln(tw, strings.Join(tableRow(l.Page, r), "\t"))
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	return nil
}

func tableColumns(page string) []string {
	switch page {
	case config.PageAlbums:
		return []string{"Title", "Artist", "Year", "Songs", "Length"}
	case config.PageArtists, config.PageGenres:
		return []string{"Name", "Songs"}
	default:
		return []string{"Title", "Artist", "Album", "Year", "Length"}
	}
}

func tableRow(page string, r record) []string {
	switch page {
	case config.PageAlbums:
		return []string{truncate(r.Title, 40), truncate(r.Artist, 30), yearOf(r.Year), strconv.Itoa(r.Songs), r.Length}
	case config.PageArtists, config.PageGenres:
		return []string{truncate(r.Title, 40), strconv.Itoa(r.Songs)}
	default:
		return []string{truncate(r.Title, 40), truncate(r.Artist, 30), truncate(r.Album, 30), yearOf(r.Year), r.Length}
	}
}

func underline(columns []string) []string {
	lines := make([]string, len(columns))
	for i, c := range columns {
		lines[i] = strings.Repeat("-", len(c))
	}

	return lines
}

func yearOf(year int) string {
	if year <= 0 {
		return ""
	}

	return strconv.Itoa(year)
}

// truncate shortens s to maxLen runes, adding "..." if needed
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	return string(runes[:maxLen-3]) + "..."
}
