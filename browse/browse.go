// ABOUTME: Browse view-model: one sorted, grouped and searchable page of the library
// ABOUTME: Turns sort descriptors and view preferences into collection view configuration

// Package browse drives a collection view from descriptor strings and
// remembers the resulting preferences for the page it serves.
package browse

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"medialib/collection"
	"medialib/config"
	"medialib/media"
	"medialib/sortkey"
)

// ErrNoDescriptor is returned when neither options nor page defaults name a sort
var ErrNoDescriptor = errors.New("no sort descriptor")

// sortOptions are the descriptors each page cycles through
var sortOptions = map[string][]string{
	config.PageSongs: {
		"GSongTitle|SongTitle",
		"GSongArtist|SongAlbum|SongDisc|SongTrack",
		"GSongAlbum|SongDisc|SongTrack",
		"GSongGenres|SongTitle",
		"GSongYear|SongTitle",
		"SongLength|SongTitle",
	},
	config.PageAlbums: {
		"GAlbumTitle|AlbumTitle",
		"GAlbumArtist|AlbumYear|AlbumTitle",
		"GAlbumGenres|AlbumTitle",
		"GAlbumYear|AlbumTitle",
	},
	config.PageArtists: {"GArtistName|ArtistName"},
	config.PageGenres:  {"GenreName"},
}

// SortOptions returns the descriptors page offers, in cycling order
func SortOptions(page string) []string {
	return slices.Clone(sortOptions[page])
}

// Options configures a new Collection. An empty Sort falls back to the
// page's default preferences.
type Options struct {
	Page         string
	Sort         string
	Direction    collection.Direction
	Alphabetical bool
	Query        string
	Logger       *slog.Logger
}

// Collection is one browsable page: a view over a library list plus the
// ordering and search that configure it
type Collection struct {
	registry *sortkey.Registry
	view     *collection.View[media.Item]
	page     string
	prefs    config.ViewPreferences
	query    string
	logger   *slog.Logger
}

// New builds the view over source in a single pass
func New(registry *sortkey.Registry, source collection.Source[media.Item], opts Options) (*Collection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.Sort == "" {
		defaults := config.DefaultViews()[opts.Page]
		opts.Sort, opts.Direction, opts.Alphabetical = defaults.Sort, defaults.Direction, defaults.Alphabetical
	}

	if opts.Sort == "" {
		return nil, fmt.Errorf("%w for page %q", ErrNoDescriptor, opts.Page)
	}

	view, deferral := collection.NewDeferred(
		collection.WithSource(source),
		collection.WithLogger[media.Item](logger),
	)
	defer deferral.Complete()

	c := &Collection{
		registry: registry,
		view:     view,
		page:     opts.Page,
		logger:   logger,
	}

	if err := c.apply(opts.Sort, opts.Direction, opts.Alphabetical); err != nil {
		view.Dispose()

		return nil, err
	}

	c.Search(opts.Query)

	return c, nil
}

// View returns the underlying collection view
func (c *Collection) View() *collection.View[media.Item] {
	return c.view
}

// Page returns the page name the collection was created for
func (c *Collection) Page() string {
	return c.page
}

// Preferences returns the ordering currently applied
func (c *Collection) Preferences() config.ViewPreferences {
	return c.prefs
}

// Query returns the active search text
func (c *Collection) Query() string {
	return c.query
}

// SortBy orders the view by descriptor without alphabetical headers
func (c *Collection) SortBy(descriptor string) error {
	return c.apply(descriptor, c.prefs.Direction, false)
}

// GroupAlphabetically orders the view by descriptor and groups it under
// alphabetic headers. Every header label is seeded, so empty letters still
// have a (hidden) group.
func (c *Collection) GroupAlphabetically(descriptor string) error {
	return c.apply(descriptor, c.prefs.Direction, true)
}

// ToggleAlphabetical switches alphabetical headers on or off for the current descriptor
func (c *Collection) ToggleAlphabetical() error {
	return c.apply(c.prefs.Sort, c.prefs.Direction, !c.prefs.Alphabetical)
}

// SetDirection reapplies the current descriptor in direction
func (c *Collection) SetDirection(direction collection.Direction) error {
	return c.apply(c.prefs.Sort, direction, c.prefs.Alphabetical)
}

// ToggleDirection flips between ascending and descending
func (c *Collection) ToggleDirection() error {
	return c.SetDirection(c.prefs.Direction.Reverse())
}

// NextSort applies the page's next sort option, wrapping around
func (c *Collection) NextSort() error {
	options := sortOptions[c.page]
	if len(options) == 0 {
		return nil
	}

	i := slices.Index(options, c.prefs.Sort)

	return c.apply(options[(i+1)%len(options)], c.prefs.Direction, c.prefs.Alphabetical)
}

// Search filters the view to items whose text contains query, ignoring case.
// An empty query removes the filter.
func (c *Collection) Search(query string) {
	query = strings.TrimSpace(query)
	if query == c.query && (query == "") == (c.view.Filter() == nil) {
		return
	}

	c.query = query

	if query == "" {
		c.view.SetFilter(nil)

		return
	}

	c.view.SetFilter(collection.NewFilter(func(item media.Item) bool {
		return media.Matches(item, query)
	}))
}

// Dispose releases the view
func (c *Collection) Dispose() {
	c.view.Dispose()
}

// apply resolves descriptor and configures the view inside one deferral.
// On error the view keeps its previous configuration.
func (c *Collection) apply(descriptor string, direction collection.Direction, alphabetical bool) error {
	plan, err := c.registry.Resolve(descriptor, direction, alphabetical)
	if err != nil {
		return fmt.Errorf("failed to apply sort %q: %w", descriptor, err)
	}

	d := c.view.DeferRefresh()
	defer d.Complete()

	plan.Apply(c.view)

	if alphabetical && plan.Group != nil {
		for _, label := range sortkey.Labels() {
			if _, err := c.view.AddGroup(sortkey.Label(label)); err != nil {
				return fmt.Errorf("failed to seed header %q: %w", label, err)
			}
		}
	}

	c.prefs = config.ViewPreferences{
		Sort:         plan.Descriptor.String(),
		Direction:    direction,
		Alphabetical: alphabetical,
	}

	c.logger.Debug("view ordering applied",
		"page", c.page,
		"sort", c.prefs.Sort,
		"direction", direction,
		"alphabetical", alphabetical,
	)

	return nil
}
