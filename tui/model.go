// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model browsing library pages through sorted, grouped collection views

// Package tui provides an interactive terminal browser for the music library.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"medialib/browse"
	"medialib/collection"
	"medialib/config"
	"medialib/library"
	"medialib/media"
	"medialib/playback"
	"medialib/sortkey"
)

// Layout constants for UI dimensions
const (
	// UI chrome heights (elements that reduce available viewport space)
	tabsHeight      = 2 // Page tabs and spacing
	headerHeight    = 1 // Ordering summary
	searchHeight    = 1 // Search line
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	totalUIChrome   = tabsHeight + headerHeight + searchHeight + statusBarHeight + helpHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10              // Number of items to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	maxUndoStackSize      = 50              // Maximum undo/redo history items
)

// ErrNoLibrary is returned when the TUI is started without a library
var ErrNoLibrary = errors.New("tui: no library")

// page is one browsable tab
type page struct {
	name string
	coll *browse.Collection
}

func (p *page) view() *collection.View[media.Item] {
	return p.coll.View()
}

// line is one rendered row: a group header or an item
type line struct {
	header   string
	item     media.Item
	position int // view position of item, -1 for headers
}

// confirmation is shared by every model copy so view vetoes see it
type confirmation struct {
	pending bool
	item    media.Item
	songs   []*media.Song
}

// removedSong remembers where a removed song sat in the library
type removedSong struct {
	song  *media.Song
	index int
}

// deletion is one undoable removal; songs are in removal order
type deletion struct {
	label  string
	itemID string
	songs  []removedSong
}

// libraryChangeMsg carries a watcher batch whose songs were read off the update loop
type libraryChangeMsg LibraryChange

// queueWrittenMsg reports the outcome of writing the queue file
type queueWrittenMsg struct {
	count int
	path  string
	err   error
}

// model holds the TUI state
type model struct {
	// Dependencies (concrete types following Go philosophy)
	lib      *library.Library
	registry *sortkey.Registry
	reader   SongReader
	events   <-chan []library.Event
	logger   *slog.Logger

	// Configuration
	cfg        config.Config
	configPath string
	dryRun     bool

	// Framework exception: Context stored in struct because Bubble Tea's Init/Update/View
	// pattern doesn't allow passing context through function parameters. The framework owns
	// the model lifecycle, making context-in-struct the idiomatic pattern for cancellation.
	ctx    context.Context    //nolint:containedctx // See framework exception above
	cancel context.CancelFunc // Cancel function for ctx

	// Pages
	pages  []*page
	active int

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Queued 12 songs")
	statusMsgAge time.Time // When status message was set

	// Browsing and editing
	viewport   viewport.Model // Viewport for scrolling the active page
	search     textinput.Model
	searching  bool
	confirm    *confirmation
	undoMgr    *UndoManager[deletion]
	lines      []line // Rendered lines of the active page
	cursorLine int    // Line of the current item, -1 for none
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding
	Sort     key.Binding
	Order    key.Binding
	Alpha    key.Binding
	Search   key.Binding
	Play     key.Binding
	PlayOne  key.Binding
	Delete   key.Binding
	Yes      key.Binding
	No       key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first item"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last item"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next page"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "next sort"),
	),
	Order: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "reverse order"),
	),
	Alpha: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "a-z headers"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Play: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "play from here"),
	),
	PlayOne: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "play this"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Padding(0, 1)

	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
)

// Run starts the browser and blocks until the user quits
func Run(opts Options, deps Dependencies) error {
	m, err := initModel(opts, deps)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) (model, error) {
	if deps.Library == nil {
		return model{}, ErrNoLibrary
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry := deps.Registry
	if registry == nil {
		registry = sortkey.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	m := model{
		lib:      deps.Library,
		registry: registry,
		reader:   deps.Reader,
		events:   deps.Events,
		logger:   logger,

		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		dryRun:     opts.DryRun,

		ctx:    ctx,
		cancel: cancel,

		viewport:   viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		search:     search,
		confirm:    &confirmation{},
		undoMgr:    NewUndoManager[deletion](maxUndoStackSize),
		cursorLine: -1,
	}

	for _, name := range config.Pages {
		prefs := opts.Config.View(name)

		coll, err := browse.New(registry, m.sourceFor(name), browse.Options{
			Page:         name,
			Sort:         prefs.Sort,
			Direction:    prefs.Direction,
			Alphabetical: prefs.Alphabetical,
			Logger:       logger,
		})
		if err != nil {
			logger.Warn("invalid saved ordering, using default", "page", name, "error", err)

			coll, err = browse.New(registry, m.sourceFor(name), browse.Options{Page: name, Logger: logger})
			if err != nil {
				m.dispose()

				return model{}, err
			}
		}

		// A pending removal holds the cursor on the item being removed
		confirm := m.confirm
		coll.View().OnCurrentChanging(func() bool { return !confirm.pending })
		coll.View().MoveCurrentToFirst()

		m.pages = append(m.pages, &page{name: name, coll: coll})
	}

	m.refreshLines()

	return m, nil
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForLibraryChange(m.ctx, m.reader, m.events),
		tea.EnterAltScreen,
	)
}

// ========== Helpers ==========

// truncate shortens a string to maxLen display columns, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}

	return runewidth.Truncate(s, maxLen, "...")
}

func (m *model) sourceFor(name string) *collection.List[media.Item] {
	switch name {
	case config.PageAlbums:
		return m.lib.Albums
	case config.PageArtists:
		return m.lib.Artists
	case config.PageGenres:
		return m.lib.Genres
	default:
		return m.lib.Songs
	}
}

func (m *model) current() *page {
	return m.pages[m.active]
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// refreshLines flattens the active view into rendered lines: a header for
// every non-empty group followed by its items. Seeded empty groups are hidden.
func (m *model) refreshLines() {
	view := m.current().view()

	m.lines = m.lines[:0]
	m.cursorLine = -1

	position := 0
	appendItem := func(item media.Item) {
		if position == view.CurrentPosition() {
			m.cursorLine = len(m.lines)
		}

		m.lines = append(m.lines, line{item: item, position: position})
		position++
	}

	if view.IsGrouped() {
		for _, g := range view.Groups() {
			if g.Len() == 0 {
				continue
			}

			m.lines = append(m.lines, line{header: groupTitle(g.Key()), position: -1})

			for _, item := range g.Items() {
				appendItem(item)
			}
		}
	} else {
		for _, item := range view.Items() {
			appendItem(item)
		}
	}

	m.updateViewportContent()
	m.ensureCursorVisible()
}

func groupTitle(key any) string {
	switch k := key.(type) {
	case nil:
		return "(none)"
	case sortkey.Label:
		if k == "" {
			return "(none)"
		}

		return string(k)
	case string:
		if k == "" {
			return "(none)"
		}

		return k
	default:
		return fmt.Sprint(k)
	}
}

// ensureCursorVisible adjusts viewport offset to keep cursor visible with middle-of-screen scrolling
func (m *model) ensureCursorVisible() {
	vm := NewViewportManager(m.viewport.Height, m.cursorLine, len(m.lines))
	m.viewport.SetYOffset(vm.CalculateOffset())
}

// settleCursor puts the cursor back on an item after it fell off one,
// staying as close as possible to position
func (m *model) settleCursor(position int) {
	view := m.current().view()
	if _, ok := view.CurrentItem(); ok || view.Len() == 0 {
		return
	}

	view.MoveCurrentToPosition(min(max(position, 0), view.Len()-1))
}

// moveCursor moves the active view's cursor to position, clamped to the items
func (m *model) moveCursor(position int) {
	view := m.current().view()
	if view.Len() == 0 {
		return
	}

	position = min(max(position, 0), view.Len()-1)
	if !view.MoveCurrentToPosition(position) && m.confirm.pending {
		m.setStatusMsg("Confirm or cancel the removal first (y/n)")
	}
}

// songsOf returns the library songs that make up item
func (m *model) songsOf(item media.Item) []*media.Song {
	var songs []*media.Song

	for _, song := range m.lib.AllSongs() {
		if media.BelongsTo(song, item) {
			songs = append(songs, song)
		}
	}

	return songs
}

// requestDelete asks for confirmation before removing the current item's songs
func (m *model) requestDelete() {
	item, ok := m.current().view().CurrentItem()
	if !ok {
		m.setStatusMsg("Nothing selected")

		return
	}

	songs := m.songsOf(item)
	if len(songs) == 0 {
		m.setStatusMsg(fmt.Sprintf("%s has no songs to remove", item))

		return
	}

	m.confirm.pending = true
	m.confirm.item = item
	m.confirm.songs = songs

	m.setStatusMsg(fmt.Sprintf("Remove %s (%d songs) from the library? y/n", item, len(songs)))
}

// cancelDelete drops a pending removal
func (m *model) cancelDelete() {
	*m.confirm = confirmation{}
	m.setStatusMsg("Removal cancelled")
}

// confirmDelete removes the songs of the pending item from the library
func (m *model) confirmDelete() {
	pending := *m.confirm
	*m.confirm = confirmation{}

	position := m.current().view().CurrentPosition()

	action := deletion{label: pending.item.String(), itemID: pending.item.ID().String()}

	for _, song := range pending.songs {
		if removed, index, ok := m.lib.ApplyRemoved(song.Location); ok {
			action.songs = append(action.songs, removedSong{song: removed, index: index})
		}
	}

	m.undoMgr.Push(action)
	m.moveCursor(position)

	m.logger.Debug("removed from library", "item", action.label, "songs", len(action.songs))
	m.setStatusMsg(fmt.Sprintf("Removed %s (Undo: %d, Redo: %d)", action.label, m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// undo re-inserts the songs of the last removal where they were
func (m *model) undo() {
	action, ok := m.undoMgr.Undo()
	if !ok {
		m.setStatusMsg("Nothing to undo")

		return
	}

	for i := len(action.songs) - 1; i >= 0; i-- {
		m.lib.RestoreAt(action.songs[i].index, action.songs[i].song)
	}

	m.moveCurrentToID(action.itemID)

	m.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// redo removes the songs of the last undone removal again
func (m *model) redo() {
	action, ok := m.undoMgr.Redo()
	if !ok {
		m.setStatusMsg("Nothing to redo")

		return
	}

	position := m.current().view().CurrentPosition()

	for i, removed := range action.songs {
		if _, index, ok := m.lib.ApplyRemoved(removed.song.Location); ok {
			action.songs[i].index = index
		}
	}

	m.moveCursor(position)

	m.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

func (m *model) moveCurrentToID(id string) {
	view := m.current().view()

	for i, item := range view.All() {
		if item.ID().String() == id {
			view.MoveCurrentToPosition(i)

			return
		}
	}
}

// applyLibraryChange applies a watcher batch to the library lists
func (m *model) applyLibraryChange(change LibraryChange) {
	position := m.current().view().CurrentPosition()

	for _, path := range change.Removed {
		m.lib.ApplyRemoved(path)
	}

	for _, song := range change.Added {
		m.lib.ApplyAdded(song)
	}

	m.settleCursor(position)

	m.logger.Debug("library changed",
		"added", len(change.Added),
		"removed", len(change.Removed),
		"failed", change.Failed,
	)

	if len(change.Added)+len(change.Removed) > 0 {
		m.setStatusMsg(fmt.Sprintf("Library updated: %d added, %d removed", len(change.Added), len(change.Removed)))
	}
}

// play builds a queue from the current item and writes it in the background
func (m *model) play(single bool) tea.Cmd {
	view := m.current().view()

	start, ok := view.CurrentItem()
	if !ok {
		m.setStatusMsg("Nothing selected")

		return nil
	}

	var (
		queue *playback.Queue
		err   error
	)

	if single {
		queue, err = playback.PlaySingle(m.ctx, start, m.lib.AllSongs())
	} else {
		queue, err = playback.PlayFrom(m.ctx, view.Items(), start, m.lib.AllSongs())
	}

	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Play failed: %v", err))

		return nil
	}

	if m.dryRun {
		m.setStatusMsg(fmt.Sprintf("--dry-run mode: %d items queued, queue not written", queue.Len()))

		return nil
	}

	path := m.cfg.QueuePath

	return func() tea.Msg {
		return queueWrittenMsg{count: queue.Len(), path: path, err: queue.Write(path)}
	}
}

// savePreferences records every page's ordering and writes the config
func (m *model) savePreferences() {
	for _, p := range m.pages {
		m.cfg.SetView(p.name, p.coll.Preferences())
	}

	if m.dryRun || m.configPath == "" {
		return
	}

	if err := config.SaveConfig(m.configPath, m.cfg); err != nil {
		// Continue anyway - don't block quit on config save failure
		m.logger.Warn("failed to save config on quit", "error", err)
	}
}

func (m *model) dispose() {
	m.cancel()

	for _, p := range m.pages {
		p.coll.Dispose()
	}
}

// waitForLibraryChange waits for the next watcher batch and reads its songs
func waitForLibraryChange(ctx context.Context, reader SongReader, events <-chan []library.Event) tea.Cmd {
	if events == nil || reader == nil {
		return nil
	}

	return func() tea.Msg {
		batch, ok := <-events
		if !ok {
			// Channel closed
			return nil
		}

		return libraryChangeMsg(readChange(ctx, reader, batch))
	}
}

// logPanic logs a recovered panic with its stack before re-panicking
func (m model) logPanic(where string) {
	if r := recover(); r != nil {
		m.logger.Error("panic in "+where, "panic", r, "stack", string(debug.Stack()))
		panic(r) // Re-panic so Bubble Tea can handle it
	}
}
