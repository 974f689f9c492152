// ABOUTME: Tests for library loading, incremental updates, scanning and watching
// ABOUTME: Verifies single-file changes surface as single-item list events

package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"medialib/collection"
	"medialib/media"
	"medialib/store"
)

func newSong(path, title, artist, album string, genres ...string) *media.Song {
	s := media.NewSong(path)
	s.Title = title
	s.Artist = artist
	s.Album = album
	s.Genres = genres

	return s
}

func seeded() *Library {
	l := New()
	l.Load(ScanResult{Songs: []*media.Song{
		newSong("/m/1.mp3", "Running", "Calibre", "Spill", "Drum and Bass"),
		newSong("/m/2.mp3", "Mr Right", "Calibre", "Spill", "Drum and Bass"),
		newSong("/m/3.mp3", "Teardrop", "Massive Attack", "Mezzanine", "Trip Hop"),
	}})

	return l
}

func countEvents(list *collection.List[media.Item]) *[]collection.Action {
	var actions []collection.Action
	list.Subscribe(func(e collection.ChangeEvent[media.Item]) { actions = append(actions, e.Action) })

	return &actions
}

// TestLoad verifies derived lists are built from songs
func TestLoad(t *testing.T) {
	l := seeded()

	if l.Songs.Len() != 3 || l.Albums.Len() != 2 || l.Artists.Len() != 2 || l.Genres.Len() != 2 {
		t.Errorf("Unexpected sizes: songs %d albums %d artists %d genres %d",
			l.Songs.Len(), l.Albums.Len(), l.Artists.Len(), l.Genres.Len())
	}

	if _, ok := l.Song("/m/3.mp3"); !ok {
		t.Error("Expected song lookup by path")
	}
}

// TestApplyAddedNewAlbum verifies a new file appends one song and its derived items
func TestApplyAddedNewAlbum(t *testing.T) {
	l := seeded()
	songs := countEvents(l.Songs)
	albums := countEvents(l.Albums)
	artists := countEvents(l.Artists)

	l.ApplyAdded(newSong("/m/4.mp3", "Windowlicker", "Aphex Twin", "Windowlicker", "IDM"))

	if len(*songs) != 1 || (*songs)[0] != collection.ActionAdd {
		t.Errorf("Expected one song add, got %v", *songs)
	}

	if len(*albums) != 1 || (*albums)[0] != collection.ActionAdd {
		t.Errorf("Expected one album add, got %v", *albums)
	}

	if len(*artists) != 1 || l.Artists.Len() != 3 {
		t.Errorf("Expected one artist add, got %v (%d artists)", *artists, l.Artists.Len())
	}
}

// TestApplyAddedExistingAlbum verifies derived items update in place
func TestApplyAddedExistingAlbum(t *testing.T) {
	l := seeded()
	album := l.Albums.At(0).(*media.Album)
	albums := countEvents(l.Albums)

	l.ApplyAdded(newSong("/m/5.mp3", "Over", "Calibre", "Spill", "Drum and Bass"))

	if len(*albums) != 1 || (*albums)[0] != collection.ActionReplace {
		t.Errorf("Expected one album replace, got %v", *albums)
	}

	if l.Albums.At(0) != album || album.SongCount != 3 {
		t.Errorf("Expected the same album pointer with 3 songs, got %d", album.SongCount)
	}
}

// TestApplyAddedSameFileReplaces verifies re-read files replace their song
func TestApplyAddedSameFileReplaces(t *testing.T) {
	l := seeded()
	songs := countEvents(l.Songs)

	l.ApplyAdded(newSong("/m/1.mp3", "Running (VIP)", "Calibre", "Spill", "Drum and Bass"))

	if len(*songs) != 1 || (*songs)[0] != collection.ActionReplace {
		t.Errorf("Expected one song replace, got %v", *songs)
	}

	if l.Songs.Len() != 3 {
		t.Errorf("Expected 3 songs, got %d", l.Songs.Len())
	}
}

// TestApplyRemovedAndRestore verifies removal drops empty derived items and can be undone
func TestApplyRemovedAndRestore(t *testing.T) {
	l := seeded()
	genres := countEvents(l.Genres)

	song, index, ok := l.ApplyRemoved("/m/3.mp3")
	if !ok || index != 2 {
		t.Fatalf("Expected removal at index 2, got %d %v", index, ok)
	}

	if l.Albums.Len() != 1 || l.Artists.Len() != 1 || l.Genres.Len() != 1 {
		t.Errorf("Expected Mezzanine items to disappear")
	}

	if len(*genres) != 1 || (*genres)[0] != collection.ActionRemove {
		t.Errorf("Expected one genre removal, got %v", *genres)
	}

	l.RestoreAt(index, song)

	if l.Songs.Len() != 3 || l.Songs.At(2) != song || l.Albums.Len() != 2 {
		t.Errorf("Expected restore to put the song back")
	}

	if _, _, ok := l.ApplyRemoved("/m/unknown.mp3"); ok {
		t.Error("Expected unknown path removal to fail")
	}
}

// TestLibraryDrivesView verifies a view over the library stays sorted under updates
func TestLibraryDrivesView(t *testing.T) {
	l := seeded()

	v := collection.New(collection.WithSource[media.Item](l.Albums))
	v.SetSortDescriptions(collection.NewSortDescription(collection.Descending, func(item media.Item) any {
		return item.(*media.Album).SongCount
	}))

	l.ApplyAdded(newSong("/m/6.mp3", "Angel", "Massive Attack", "Mezzanine", "Trip Hop"))
	l.ApplyAdded(newSong("/m/7.mp3", "Inertia Creeps", "Massive Attack", "Mezzanine", "Trip Hop"))

	if first := v.At(0).(*media.Album); first.Title != "Mezzanine" {
		t.Errorf("Expected Mezzanine first, got %s", first.Title)
	}
}

// TestScanDir verifies audio files and playlists are discovered
func TestScanDir(t *testing.T) {
	root := t.TempDir()
	album := filepath.Join(root, "Artist", "Album")

	if err := os.MkdirAll(album, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		filepath.Join(album, "01.mp3"):          "not audio",
		filepath.Join(album, "cover.jpg"):       "image",
		filepath.Join(root, "mix.m3u8"):         "Artist/Album/01.mp3\n",
		filepath.Join(root, ".hidden", "x.mp3"): "hidden",
	}

	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	cache, err := store.Open(filepath.Join(t.TempDir(), "songs.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	result, err := NewScanner(cache, 2, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Skipped != 1 || len(result.Songs) != 0 {
		t.Errorf("Expected one skipped file and no songs, got %+v", result)
	}

	if len(result.Playlists) != 1 || result.Playlists[0].Title != "mix" {
		t.Errorf("Expected playlist mix, got %+v", result.Playlists)
	}
}

// TestScanCancelled verifies cancellation is reported
func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(nil, 1, nil).ScanDir(ctx, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestScanMissingRoot verifies a missing library is an error
func TestScanMissingRoot(t *testing.T) {
	if _, err := NewScanner(nil, 1, nil).Scan(context.Background(), "/nonexistent/library"); err == nil {
		t.Error("Expected error for missing root")
	}
}

func nextBatch(t *testing.T, w *Watcher) []Event {
	t.Helper()

	select {
	case batch := <-w.Events():
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for watcher events")

		return nil
	}
}

// TestWatcher verifies debounced add and remove batches, including new directories
func TestWatcher(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	song := filepath.Join(root, "a.mp3")
	if err := os.WriteFile(song, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	batch := nextBatch(t, w)
	if len(batch) != 1 || batch[0].Kind != Added || batch[0].Path != song {
		t.Fatalf("Expected one add of %s, got %+v", song, batch)
	}

	if err := os.Remove(song); err != nil {
		t.Fatal(err)
	}

	batch = nextBatch(t, w)
	if len(batch) != 1 || batch[0].Kind != Removed {
		t.Fatalf("Expected one removal, got %+v", batch)
	}

	sub := filepath.Join(root, "new")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	time.Sleep(50 * time.Millisecond)

	nested := filepath.Join(sub, "b.flac")
	if err := os.WriteFile(nested, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	batch = nextBatch(t, w)
	if len(batch) == 0 || batch[len(batch)-1].Path != nested {
		t.Errorf("Expected add of %s, got %+v", nested, batch)
	}
}

// TestWatcherDirectoryMovedAway verifies songs under a vanished directory are reported removed
func TestWatcherDirectoryMovedAway(t *testing.T) {
	root := t.TempDir()

	album := filepath.Join(root, "Mezzanine")
	if err := os.Mkdir(album, 0o755); err != nil {
		t.Fatal(err)
	}

	songs := []string{filepath.Join(album, "Angel.mp3"), filepath.Join(album, "Teardrop.mp3")}
	for _, song := range songs {
		if err := os.WriteFile(song, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	w, err := NewWatcher(root, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	if err := os.Rename(album, filepath.Join(t.TempDir(), "Mezzanine")); err != nil {
		t.Fatal(err)
	}

	removed := make(map[string]bool)
	for len(removed) < len(songs) {
		for _, event := range nextBatch(t, w) {
			if event.Kind != Removed {
				t.Errorf("Expected only removals, got %+v", event)
			}

			removed[event.Path] = true
		}
	}

	for _, song := range songs {
		if !removed[song] {
			t.Errorf("Expected removal of %s, got %v", song, removed)
		}
	}
}
