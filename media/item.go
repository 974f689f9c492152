// ABOUTME: Media item model: songs, albums, artists, genres, videos and playlists
// ABOUTME: Items are a closed set sharing the sealed Item interface and stable UUIDs

// Package media defines the library items shown by the browser.
// Every item has a stable UUID derived from what identifies it on disk or in
// the library, so the same file maps to the same ID across runs.
package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the item variant
type Kind int

const (
	KindSong Kind = iota
	KindAlbum
	KindArtist
	KindGenre
	KindVideo
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindSong:
		return "song"
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	case KindGenre:
		return "genre"
	case KindVideo:
		return "video"
	case KindPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Item is implemented only by the types in this package
type Item interface {
	ID() uuid.UUID
	Kind() Kind
	String() string
	sealed()
}

type base struct {
	id uuid.UUID
}

// ID returns the item's stable identifier
func (b *base) ID() uuid.UUID {
	return b.id
}

func (b *base) sealed() {}

// idFor derives a stable ID from the parts that identify an item
func idFor(kind Kind, parts ...string) uuid.UUID {
	name := kind.String() + ":" + strings.ToLower(strings.Join(parts, "\x00"))

	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}

// Song is a single audio file
type Song struct {
	base

	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genres      []string
	Disc        int
	Track       int
	Year        int
	Length      time.Duration
	Location    string // absolute path of the audio file
	Rating      int
	Bitrate     int
}

// NewSong creates a song identified by its file location
func NewSong(location string) *Song {
	return &Song{
		base:     base{id: idFor(KindSong, location)},
		Location: location,
	}
}

func (s *Song) Kind() Kind { return KindSong }

func (s *Song) String() string {
	return fmt.Sprintf("%s - %s", s.DisplayArtist(), s.Title)
}

// DisplayArtist returns the track artist, falling back to the album artist
func (s *Song) DisplayArtist() string {
	if s.Artist != "" {
		return s.Artist
	}

	return s.AlbumArtist
}

// Album is derived from the songs that share an album artist and title
type Album struct {
	base

	Title     string
	Artist    string
	Genres    []string
	Year      int
	SongCount int
	Length    time.Duration
}

// NewAlbum creates an album identified by artist and title
func NewAlbum(artist, title string) *Album {
	return &Album{
		base:   base{id: idFor(KindAlbum, artist, title)},
		Title:  title,
		Artist: artist,
	}
}

func (a *Album) Kind() Kind { return KindAlbum }

func (a *Album) String() string {
	return fmt.Sprintf("%s - %s", a.Artist, a.Title)
}

// Artist is derived from the songs credited to one name
type Artist struct {
	base

	Name       string
	AlbumCount int
	SongCount  int
}

// NewArtist creates an artist identified by name
func NewArtist(name string) *Artist {
	return &Artist{base: base{id: idFor(KindArtist, name)}, Name: name}
}

func (a *Artist) Kind() Kind { return KindArtist }

func (a *Artist) String() string { return a.Name }

// Genre is derived from the genre tags of the songs
type Genre struct {
	base

	Name      string
	SongCount int
}

// NewGenre creates a genre identified by name
func NewGenre(name string) *Genre {
	return &Genre{base: base{id: idFor(KindGenre, name)}, Name: name}
}

func (g *Genre) Kind() Kind { return KindGenre }

func (g *Genre) String() string { return g.Name }

// Video is a video file
type Video struct {
	base

	Title    string
	Year     int
	Length   time.Duration
	Location string
}

// NewVideo creates a video identified by its file location
func NewVideo(location string) *Video {
	return &Video{base: base{id: idFor(KindVideo, location)}, Location: location}
}

func (v *Video) Kind() Kind { return KindVideo }

func (v *Video) String() string { return v.Title }

// Playlist is a playlist file and the locations it lists
type Playlist struct {
	base

	Title    string
	Location string
	Entries  []string // absolute locations in playlist order
}

// NewPlaylist creates a playlist identified by its file location
func NewPlaylist(location string) *Playlist {
	return &Playlist{base: base{id: idFor(KindPlaylist, location)}, Location: location}
}

func (p *Playlist) Kind() Kind { return KindPlaylist }

func (p *Playlist) String() string { return p.Title }

// Matches reports whether query occurs in the item's display text, ignoring case.
// A genre family name also matches its subgenres. An empty query matches everything.
func Matches(item Item, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	query = strings.ToLower(query)

	var (
		fields []string
		genres []string
	)

	switch it := item.(type) {
	case *Song:
		fields = append([]string{it.Title, it.Artist, it.AlbumArtist, it.Album}, it.Genres...)
		genres = it.Genres
	case *Album:
		fields = append([]string{it.Title, it.Artist}, it.Genres...)
		genres = it.Genres
	case *Genre:
		fields = []string{it.Name}
		genres = fields
	default:
		fields = []string{item.String()}
	}

	for _, genre := range genres {
		if IsSubGenre(genre, query) {
			return true
		}
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}

	return false
}
