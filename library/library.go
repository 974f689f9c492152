// ABOUTME: Observable item lists for songs, albums, artists and genres
// ABOUTME: Applies single-file changes as single-item list events so views update incrementally

package library

import (
	"reflect"

	"github.com/google/uuid"

	"medialib/collection"
	"medialib/media"
)

// Library owns the source lists the browser views project.
// It is not safe for concurrent use.
type Library struct {
	Songs   *collection.List[media.Item]
	Albums  *collection.List[media.Item]
	Artists *collection.List[media.Item]
	Genres  *collection.List[media.Item]

	playlists []*media.Playlist
	byPath    map[string]*media.Song
}

// New creates an empty library
func New() *Library {
	return &Library{
		Songs:   collection.NewList[media.Item](),
		Albums:  collection.NewList[media.Item](),
		Artists: collection.NewList[media.Item](),
		Genres:  collection.NewList[media.Item](),
		byPath:  make(map[string]*media.Song),
	}
}

// Load replaces the whole library; every list reports a reset
func (l *Library) Load(result ScanResult) {
	clear(l.byPath)

	items := make([]media.Item, 0, len(result.Songs))

	for _, song := range result.Songs {
		if _, dup := l.byPath[song.Location]; dup {
			continue
		}

		l.byPath[song.Location] = song
		items = append(items, song)
	}

	l.playlists = result.Playlists

	agg := media.Aggregate(l.AllSongs())

	l.Songs.Reset(items...)
	l.Albums.Reset(asItems(agg.Albums)...)
	l.Artists.Reset(asItems(agg.Artists)...)
	l.Genres.Reset(asItems(agg.Genres)...)
}

// AllSongs returns the songs in source order
func (l *Library) AllSongs() []*media.Song {
	songs := make([]*media.Song, 0, l.Songs.Len())
	for i := range l.Songs.Len() {
		songs = append(songs, l.Songs.At(i).(*media.Song))
	}

	return songs
}

// Playlists returns the playlists found by the last scan
func (l *Library) Playlists() []*media.Playlist {
	return l.playlists
}

// Song returns the song stored at path
func (l *Library) Song(path string) (*media.Song, bool) {
	song, ok := l.byPath[path]

	return song, ok
}

// ApplyAdded adds song, or replaces the song previously read from the same file
func (l *Library) ApplyAdded(song *media.Song) {
	l.RestoreAt(-1, song)
}

// RestoreAt puts song back at source index i (appending when i is out of range).
// A song already known by location is replaced in place.
func (l *Library) RestoreAt(i int, song *media.Song) {
	if old, ok := l.byPath[song.Location]; ok {
		l.byPath[song.Location] = song
		l.Songs.Replace(l.Songs.IndexOf(old), song)
	} else {
		l.byPath[song.Location] = song

		if i < 0 || i > l.Songs.Len() {
			i = l.Songs.Len()
		}

		l.Songs.Insert(i, song)
	}

	l.syncDerived()
}

// ApplyRemoved removes the song stored at path and returns it with its former
// source index, so the removal can be undone with RestoreAt
func (l *Library) ApplyRemoved(path string) (*media.Song, int, bool) {
	song, ok := l.byPath[path]
	if !ok {
		return nil, -1, false
	}

	delete(l.byPath, path)

	i := l.Songs.IndexOf(song)
	l.Songs.RemoveAt(i)
	l.syncDerived()

	return song, i, true
}

// syncDerived brings albums, artists and genres in line with the songs.
// Changed items are updated in place and replaced so views re-place them.
func (l *Library) syncDerived() {
	agg := media.Aggregate(l.AllSongs())

	reconcile(l.Albums, agg.Albums)
	reconcile(l.Artists, agg.Artists)
	reconcile(l.Genres, agg.Genres)
}

// reconcile edits list to hold fresh, one single-item change at a time.
// Items keep their identity across updates because IDs are derived from names.
func reconcile[P interface {
	*E
	media.Item
}, E any](list *collection.List[media.Item], fresh []P) {
	wanted := make(map[uuid.UUID]P, len(fresh))
	for _, item := range fresh {
		wanted[item.ID()] = item
	}

	for i := list.Len() - 1; i >= 0; i-- {
		if _, keep := wanted[list.At(i).ID()]; !keep {
			list.RemoveAt(i)
		}
	}

	existing := make(map[uuid.UUID]int, list.Len())
	for i := range list.Len() {
		existing[list.At(i).ID()] = i
	}

	for _, item := range fresh {
		i, ok := existing[item.ID()]
		if !ok {
			list.Append(item)

			continue
		}

		current := list.At(i).(P)
		if reflect.DeepEqual(*current, *item) {
			continue
		}

		*current = *item
		list.Replace(i, current)
	}
}

func asItems[T media.Item](items []T) []media.Item {
	out := make([]media.Item, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}
