// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.viewport.Width = max(msg.Width, minViewportWidth)

		// Height: total height minus all UI chrome (tabs, header, search, status, help)
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)

		// Ensure viewport starts at top
		m.viewport.YOffset = 0
		m.refreshLines()

		return m, nil

	case libraryChangeMsg:
		m.applyLibraryChange(LibraryChange(msg))
		m.refreshLines()

		// Queue next batch
		return m, waitForLibraryChange(m.ctx, m.reader, m.events)

	case queueWrittenMsg:
		if msg.err != nil {
			m.logger.Error("failed to write queue", "path", msg.path, "error", msg.err)
			m.setStatusMsg(fmt.Sprintf("Queue write failed: %v", msg.err))
		} else {
			m.logger.Debug("queue written", "path", msg.path, "items", msg.count)
			m.setStatusMsg(fmt.Sprintf("Queued %d items to %s", msg.count, msg.path))
		}

		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd

		switch {
		case m.searching:
			cmd = m.handleSearchKey(msg)

		case m.confirm.pending:
			cmd = m.handleConfirmKey(msg)

		default:
			cmd = m.handleKey(msg)
		}

		if !m.quitting {
			m.refreshLines()
		}

		return m, cmd
	}

	return m, nil
}

// handleKey handles a key press while browsing
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	view := m.current().view()

	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Tab):
		m.active = (m.active + 1) % len(m.pages)

		// Ensure viewport starts at top
		m.viewport.YOffset = 0

	case key.Matches(msg, keys.Up):
		m.moveCursor(view.CurrentPosition() - 1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(view.CurrentPosition() + 1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(view.CurrentPosition() - pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(view.CurrentPosition() + pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.moveCursor(0)

	case key.Matches(msg, keys.End):
		m.moveCursor(view.Len() - 1)

	case key.Matches(msg, keys.Sort):
		m.reorder(m.current().coll.NextSort())

	case key.Matches(msg, keys.Order):
		m.reorder(m.current().coll.ToggleDirection())

	case key.Matches(msg, keys.Alpha):
		m.reorder(m.current().coll.ToggleAlphabetical())

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.current().coll.Query())
		m.search.CursorEnd()

		return m.search.Focus()

	case key.Matches(msg, keys.Play):
		return m.play(false)

	case key.Matches(msg, keys.PlayOne):
		return m.play(true)

	case key.Matches(msg, keys.Delete):
		m.requestDelete()

	case key.Matches(msg, keys.Undo):
		m.undo()

	case key.Matches(msg, keys.Redo):
		m.redo()
	}

	return nil
}

// handleConfirmKey handles a key press while a removal waits for confirmation
func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Yes):
		m.confirmDelete()

	case key.Matches(msg, keys.No):
		m.cancelDelete()

	case msg.Type == tea.KeyCtrlC:
		m.cancelDelete()

		return m.handleQuitKey()

	default:
		m.setStatusMsg("Confirm or cancel the removal first (y/n)")
	}

	return nil
}

// handleSearchKey feeds the search line and filters the active page as the query changes
func (m *model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	coll := m.current().coll
	position := coll.View().CurrentPosition()

	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()

		return nil

	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		coll.Search("")
		m.settleCursor(position)

		return nil
	}

	var cmd tea.Cmd

	m.search, cmd = m.search.Update(msg)

	if m.search.Value() != coll.Query() {
		coll.Search(m.search.Value())
		m.settleCursor(position)
	}

	return cmd
}

// reorder reports a failed ordering change
func (m *model) reorder(err error) {
	if err != nil {
		m.logger.Warn("ordering change failed", "page", m.current().name, "error", err)
		m.setStatusMsg(fmt.Sprintf("Cannot reorder: %v", err))

		return
	}

	prefs := m.current().coll.Preferences()
	m.setStatusMsg(fmt.Sprintf("Sorted by %s (%s)", prefs.Sort, prefs.Direction))
}

// handleQuitKey saves page preferences and quits
func (m *model) handleQuitKey() tea.Cmd {
	m.quitting = true
	m.savePreferences()
	m.dispose()

	return tea.Quit
}
