// ABOUTME: Default selectors for every media item variant
// ABOUTME: Names follow <Variant><Field>; a leading G marks selectors meant for grouping

package sortkey

import (
	"strings"

	"medialib/media"
)

// Default returns a registry holding the media selectors
func Default() *Registry {
	r := NewRegistry()

	song := func(name string, fn func(*media.Song) any) { r.MustRegister(name, For(fn)) }
	album := func(name string, fn func(*media.Album) any) { r.MustRegister(name, For(fn)) }

	song("SongDisc", func(s *media.Song) any { return s.Disc })
	song("SongTrack", func(s *media.Song) any { return s.Track })
	song("SongTitle", func(s *media.Song) any { return s.Title })
	song("SongAlbum", func(s *media.Song) any { return s.Album })
	song("SongArtist", func(s *media.Song) any { return s.DisplayArtist() })
	song("SongGenres", func(s *media.Song) any { return strings.Join(s.Genres, ", ") })
	song("SongGenreFamily", func(s *media.Song) any { return media.GenreFamily(firstOf(s.Genres)) })
	song("SongYear", func(s *media.Song) any { return s.Year })
	song("SongLength", func(s *media.Song) any { return s.Length })
	song("SongRating", func(s *media.Song) any { return s.Rating })

	song("GSongTitle", func(s *media.Song) any { return HeaderOf(s.Title) })
	song("GSongAlbum", func(s *media.Song) any { return s.Album })
	song("GSongArtist", func(s *media.Song) any { return s.DisplayArtist() })
	song("GSongGenres", func(s *media.Song) any { return firstOf(s.Genres) })
	song("GSongGenreFamily", func(s *media.Song) any { return media.GenreFamily(firstOf(s.Genres)) })
	song("GSongYear", func(s *media.Song) any { return s.Year })

	album("AlbumTitle", func(a *media.Album) any { return a.Title })
	album("AlbumArtist", func(a *media.Album) any { return a.Artist })
	album("AlbumGenres", func(a *media.Album) any { return strings.Join(a.Genres, ", ") })
	album("AlbumYear", func(a *media.Album) any { return a.Year })

	album("GAlbumTitle", func(a *media.Album) any { return HeaderOf(a.Title) })
	album("GAlbumArtist", func(a *media.Album) any { return a.Artist })
	album("GAlbumGenres", func(a *media.Album) any { return firstOf(a.Genres) })
	album("GAlbumYear", func(a *media.Album) any { return a.Year })

	r.MustRegister("VideoTitle", For(func(v *media.Video) any { return v.Title }))
	r.MustRegister("VideoYear", For(func(v *media.Video) any { return v.Year }))
	r.MustRegister("VideoLength", For(func(v *media.Video) any { return v.Length }))

	r.MustRegister("PlaylistTitle", For(func(p *media.Playlist) any { return p.Title }))

	r.MustRegister("ArtistName", For(func(a *media.Artist) any { return a.Name }))
	r.MustRegister("GArtistName", For(func(a *media.Artist) any { return HeaderOf(a.Name) }))

	r.MustRegister("GenreName", For(func(g *media.Genre) any { return g.Name }))

	return r
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
