// ABOUTME: Tests for the key registry, descriptor parsing and header labels
// ABOUTME: Verifies plans resolve to working view descriptions over media items

package sortkey

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"medialib/collection"
	"medialib/media"
)

// TestRegister verifies duplicate and missing keys are reported
func TestRegister(t *testing.T) {
	r := NewRegistry()
	sel := For(func(s *media.Song) any { return s.Title })

	if err := r.Register("SongTitle", sel); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := r.Register("SongTitle", sel); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	if _, err := r.Get("Nope"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}

	if _, ok := r.TryGet("SongTitle"); !ok {
		t.Error("Expected TryGet to find SongTitle")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected MustRegister to panic on duplicate")
		}
	}()

	r.MustRegister("SongTitle", sel)
}

// TestGetSuggestsKeyInOtherCase verifies a miscased key name gets a suggestion
func TestGetSuggestsKeyInOtherCase(t *testing.T) {
	r := Default()

	if names := r.Names(); !slices.IsSorted(names) || !slices.Contains(names, "GSongTitle") {
		t.Errorf("Expected sorted names including GSongTitle, got %v", names)
	}

	_, err := r.Get("songyear")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Expected ErrKeyNotFound, got %v", err)
	}

	if !strings.Contains(err.Error(), `did you mean "SongYear"`) {
		t.Errorf("Expected suggestion for SongYear, got %q", err)
	}

	_, err = r.Get("SongMood")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("Expected plain not found error, got %v", err)
	}
}

// TestForPanicsOnWrongVariant verifies selector type mismatches are fatal
func TestForPanicsOnWrongVariant(t *testing.T) {
	sel := For(func(s *media.Song) any { return s.Title })

	defer func() {
		err, _ := recover().(error)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("Expected *MismatchError panic, got %v", err)
		}

		if mismatch.Want != "*media.Song" {
			t.Errorf("Expected Want *media.Song, got %s", mismatch.Want)
		}
	}()

	sel(media.NewArtist("x"))
}

// TestParse verifies group marker detection and key order
func TestParse(t *testing.T) {
	tests := []struct {
		in        string
		wantGroup string
		wantSorts []string
		wantErr   bool
	}{
		{in: "SongTitle", wantSorts: []string{"SongTitle"}},
		{in: "GSongTitle|SongTitle|SongYear", wantGroup: "GSongTitle", wantSorts: []string{"SongTitle", "SongYear"}},
		{in: "SongYear|GSongAlbum", wantGroup: "GSongAlbum", wantSorts: []string{"SongYear"}},
		{in: "GSongAlbum|GSongYear", wantGroup: "GSongAlbum", wantSorts: []string{"GSongYear"}},
		{in: "GenreName", wantSorts: []string{"GenreName"}},
		{in: "", wantErr: true},
		{in: "SongTitle||SongYear", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDescriptor) {
					t.Errorf("Expected ErrInvalidDescriptor, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if d.Group != tt.wantGroup || !slices.Equal(d.Sorts, tt.wantSorts) {
				t.Errorf("Parse(%q) = %+v", tt.in, d)
			}
		})
	}

	if got := (Descriptor{Group: "GSongTitle", Sorts: []string{"SongYear"}}).String(); got != "GSongTitle|SongYear" {
		t.Errorf("Expected GSongTitle|SongYear, got %s", got)
	}
}

// TestHeader verifies header labels for different initials
func TestHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"apple", "A"},
		{"Zebra", "Z"},
		{"école", "E"},
		{"Ørsted", "…"},
		{"  björk", "B"},
		{"99 Luftballons", "#"},
		{"(What's the Story)", "&"},
		{"東京", "…"},
		{"", ""},
		{"&", "&"},
		{"#", "#"},
		{"…", "…"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Header(tt.in); got != tt.want {
				t.Errorf("Header(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestLabelCompare verifies label ordering
func TestLabelCompare(t *testing.T) {
	ordered := append([]string{""}, Labels()...)

	for i := 1; i < len(ordered); i++ {
		if LabelCompare(ordered[i-1], ordered[i]) >= 0 {
			t.Errorf("Expected %q before %q", ordered[i-1], ordered[i])
		}
	}

	if len(Labels()) != 29 {
		t.Errorf("Expected 29 labels, got %d", len(Labels()))
	}
}

func library() []media.Item {
	mk := func(title, album string, disc, track int) *media.Song {
		s := media.NewSong("/m/" + album + "/" + title)
		s.Title, s.Album, s.Disc, s.Track = title, album, disc, track

		return s
	}

	return []media.Item{
		mk("Breathe", "Dark Side", 1, 2),
		mk("Alone", "Wall", 1, 1),
		mk("Time", "Dark Side", 1, 4),
		mk("Speak", "Dark Side", 1, 1),
		mk("ænima", "Undertow", 1, 1),
		mk("1979", "Mellon", 2, 5),
	}
}

func titles(v *collection.View[media.Item]) []string {
	var out []string
	for _, item := range v.Items() {
		out = append(out, item.(*media.Song).Title)
	}

	return out
}

// TestResolveAndApply verifies plans drive a view
func TestResolveAndApply(t *testing.T) {
	r := Default()
	v := collection.New(collection.WithSource[media.Item](collection.NewList(library()...)))

	plan, err := r.Resolve("GSongAlbum|SongDisc|SongTrack", collection.Ascending, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	plan.Apply(v)

	want := []string{"Speak", "Breathe", "Time", "1979", "ænima", "Alone"}
	if got := titles(v); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if len(v.Groups()) != 4 {
		t.Errorf("Expected 4 album groups, got %d", len(v.Groups()))
	}

	plan, err = r.Resolve("SongTitle", collection.Descending, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	plan.Apply(v)

	var keys []Label
	for _, g := range v.Groups() {
		keys = append(keys, g.Key().(Label))
	}

	if !slices.Equal(keys, []Label{"…", "T", "S", "B", "A", "#"}) {
		t.Errorf("Expected descending headers [… T S B A #], got %v", keys)
	}

	if _, err := r.Resolve("SongTitle|Bogus", collection.Ascending, false); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

// TestDefaultSongAlbumSelectsAlbum verifies SongAlbum returns the album title
func TestDefaultSongAlbumSelectsAlbum(t *testing.T) {
	sel, err := Default().Get("SongAlbum")
	if err != nil {
		t.Fatal(err)
	}

	s := media.NewSong("/x.mp3")
	s.Album, s.Disc = "Blue", 2

	if got := sel(s); got != "Blue" {
		t.Errorf("Expected Blue, got %v", got)
	}
}

// TestCompareMixesLabelsAndStrings verifies label keys order by label position
func TestCompareMixesLabelsAndStrings(t *testing.T) {
	if Compare(Label("#"), Label("A")) >= 0 {
		t.Error("Expected # before A")
	}

	if Compare(Label("…"), Label("Z")) <= 0 {
		t.Error("Expected … after Z")
	}

	if Compare(2001, 1999) <= 0 {
		t.Error("Expected numbers to compare by value")
	}
}
