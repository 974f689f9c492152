// ABOUTME: Builds play queues from the ordered items of a browser page
// ABOUTME: Expands albums, artists, genres and playlists into songs and writes the queue file

// Package playback turns browser selections into play queues.
package playback

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"medialib/collection"
	"medialib/media"
	"medialib/playlist"
)

// Queue is an ordered list of playable items: songs and videos
type Queue struct {
	Items []media.Item
}

// Len returns the number of queued items
func (q *Queue) Len() int {
	return len(q.Items)
}

// Locations returns the file location of every queued item
func (q *Queue) Locations() []string {
	locations := make([]string, 0, len(q.Items))

	for _, item := range q.Items {
		switch it := item.(type) {
		case *media.Song:
			locations = append(locations, it.Location)
		case *media.Video:
			locations = append(locations, it.Location)
		}
	}

	return locations
}

// Write saves the queue as an M3U8 playlist, creating its directory
func (q *Queue) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create queue directory: %w", err)
	}

	return playlist.WritePlaylist(path, q.Locations())
}

// PlayFrom queues items starting at start: items before it move to the end,
// then every item is expanded to its songs. A nil or missing start keeps
// the order. The context is checked between stages and ctx.Err() is
// returned once it is done.
func PlayFrom(ctx context.Context, items []media.Item, start media.Item, songs []*media.Song) (*Queue, error) {
	items = slices.Clone(items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if start != nil {
		if i := slices.Index(items, start); i > 0 {
			items = slices.Concat(items[i:], items[:i])
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e := newExpander(songs)
	queue := &Queue{}

	for _, item := range items {
		queue.Items = append(queue.Items, e.expand(item)...)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return queue, nil
}

// PlaySingle queues one item and nothing else
func PlaySingle(ctx context.Context, item media.Item, songs []*media.Song) (*Queue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queue := &Queue{Items: newExpander(songs).expand(item)}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return queue, nil
}

// expander resolves items to songs. Songs are sorted once per ordering.
type expander struct {
	songs      []*media.Song
	byTrack    []*media.Song
	byTitle    []*media.Song
	byLocation map[string]*media.Song
}

func newExpander(songs []*media.Song) *expander {
	return &expander{songs: songs}
}

func (e *expander) expand(item media.Item) []media.Item {
	switch it := item.(type) {
	case *media.Song, *media.Video:
		return []media.Item{it}
	case *media.Album:
		return e.matching(e.trackOrder(), it)
	case *media.Artist, *media.Genre:
		return e.matching(e.titleOrder(), it)
	case *media.Playlist:
		return e.entries(it)
	default:
		return nil
	}
}

func (e *expander) matching(songs []*media.Song, item media.Item) []media.Item {
	var out []media.Item

	for _, song := range songs {
		if media.BelongsTo(song, item) {
			out = append(out, song)
		}
	}

	return out
}

// entries keeps playlist order and skips locations missing from the library
func (e *expander) entries(pl *media.Playlist) []media.Item {
	if e.byLocation == nil {
		e.byLocation = make(map[string]*media.Song, len(e.songs))
		for _, song := range e.songs {
			e.byLocation[song.Location] = song
		}
	}

	var out []media.Item

	for _, location := range pl.Entries {
		if song, ok := e.byLocation[location]; ok {
			out = append(out, song)
		}
	}

	return out
}

func (e *expander) trackOrder() []*media.Song {
	if e.byTrack == nil {
		e.byTrack = slices.Clone(e.songs)
		slices.SortStableFunc(e.byTrack, func(a, b *media.Song) int {
			return cmp.Or(cmp.Compare(a.Disc, b.Disc), cmp.Compare(a.Track, b.Track))
		})
	}

	return e.byTrack
}

func (e *expander) titleOrder() []*media.Song {
	if e.byTitle == nil {
		e.byTitle = slices.Clone(e.songs)
		slices.SortStableFunc(e.byTitle, func(a, b *media.Song) int {
			return collection.CompareStrings(a.Title, b.Title)
		})
	}

	return e.byTitle
}
