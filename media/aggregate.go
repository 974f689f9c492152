// ABOUTME: Derives albums, artists and genres from a set of songs
// ABOUTME: Also answers which songs belong to a derived item

package media

import (
	"slices"
	"strings"
)

// Aggregates holds the items derived from songs, in first-seen order
type Aggregates struct {
	Albums  []*Album
	Artists []*Artist
	Genres  []*Genre
}

// AlbumArtistOf returns the artist an album is filed under for song
func AlbumArtistOf(song *Song) string {
	if song.AlbumArtist != "" {
		return song.AlbumArtist
	}

	return song.Artist
}

// Aggregate derives albums, artists and genres from songs.
// Songs without album, artist or genre tags do not create those items.
func Aggregate(songs []*Song) Aggregates {
	var agg Aggregates

	albums := make(map[string]*Album)
	artists := make(map[string]*Artist)
	artistAlbums := make(map[string]map[string]bool)
	genres := make(map[string]*Genre)

	for _, song := range songs {
		if song.Album != "" {
			key := fold(AlbumArtistOf(song)) + "\x00" + fold(song.Album)

			album, ok := albums[key]
			if !ok {
				album = NewAlbum(AlbumArtistOf(song), song.Album)
				albums[key] = album
				agg.Albums = append(agg.Albums, album)
			}

			album.AddSong(song)
		}

		if name := song.DisplayArtist(); name != "" {
			key := fold(name)

			artist, ok := artists[key]
			if !ok {
				artist = NewArtist(name)
				artists[key] = artist
				artistAlbums[key] = make(map[string]bool)
				agg.Artists = append(agg.Artists, artist)
			}

			artist.SongCount++

			if song.Album != "" && !artistAlbums[key][fold(song.Album)] {
				artistAlbums[key][fold(song.Album)] = true
				artist.AlbumCount++
			}
		}

		for _, name := range song.Genres {
			key := fold(name)

			genre, ok := genres[key]
			if !ok {
				genre = NewGenre(name)
				genres[key] = genre
				agg.Genres = append(agg.Genres, genre)
			}

			genre.SongCount++
		}
	}

	return agg
}

// AddSong accounts for song in the album's totals
func (a *Album) AddSong(song *Song) {
	a.SongCount++
	a.Length += song.Length

	if a.Year == 0 || (song.Year != 0 && song.Year < a.Year) {
		a.Year = song.Year
	}

	for _, genre := range song.Genres {
		if !slices.ContainsFunc(a.Genres, func(g string) bool { return strings.EqualFold(g, genre) }) {
			a.Genres = append(a.Genres, genre)
		}
	}
}

// BelongsTo reports whether song is part of item: the album it is on, an
// artist it is credited to, a genre it is tagged with, a playlist listing it,
// or the song itself
func BelongsTo(song *Song, item Item) bool {
	switch it := item.(type) {
	case *Song:
		return it == song
	case *Album:
		return strings.EqualFold(song.Album, it.Title) && strings.EqualFold(AlbumArtistOf(song), it.Artist)
	case *Artist:
		return strings.EqualFold(song.Artist, it.Name) || strings.EqualFold(song.AlbumArtist, it.Name)
	case *Genre:
		return slices.ContainsFunc(song.Genres, func(g string) bool { return strings.EqualFold(g, it.Name) })
	case *Playlist:
		return slices.Contains(it.Entries, song.Location)
	default:
		return false
	}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
