// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"strings"
	"time"

	"medialib/media"
)

// View renders the TUI
func (m model) View() string {
	defer m.logPanic("View")

	if m.quitting {
		return "Saving preferences and exiting...\n"
	}

	var s strings.Builder

	s.WriteString(m.renderTabs() + "\n\n")
	s.WriteString(m.renderOrdering() + "\n")
	s.WriteString(m.viewport.View() + "\n")
	s.WriteString(m.renderSearch() + "\n")
	s.WriteString(m.renderStatus() + "\n")
	s.WriteString(m.renderHelp())

	return s.String()
}

// renderTabs renders the page tabs with the active one highlighted
func (m model) renderTabs() string {
	tabs := make([]string, 0, len(m.pages)+1)
	tabs = append(tabs, titleStyle.Render("medialib"))

	for i, p := range m.pages {
		label := fmt.Sprintf("%s (%d)", p.name, p.view().Len())
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	return strings.Join(tabs, " ")
}

// renderOrdering renders the sort descriptor of the active page
func (m model) renderOrdering() string {
	prefs := m.current().coll.Preferences()

	ordering := fmt.Sprintf("Sort: %s | %s", prefs.Sort, prefs.Direction)
	if prefs.Alphabetical {
		ordering += " | A-Z"
	}

	return helpStyle.Render(ordering)
}

// updateViewportContent builds and sets the viewport content
// Renders ALL lines - let viewport handle scrolling
func (m *model) updateViewportContent() {
	var content strings.Builder

	width := max(m.viewport.Width, minViewportWidth)

	for i, l := range m.lines {
		if l.item == nil {
			content.WriteString(groupHeaderStyle.Render(truncate(l.header, width)) + "\n")

			continue
		}

		row := truncate(formatItem(l.item), width)

		// Highlight cursor line
		if i == m.cursorLine {
			row = cursorStyle.Render(row)
		}

		content.WriteString(row + "\n")
	}

	m.viewport.SetContent(content.String())
}

// formatItem renders one item as fixed-width columns for its kind
func formatItem(item media.Item) string {
	switch it := item.(type) {
	case *media.Song:
		return fmt.Sprintf("  %-30s %-20s %-20s %6s",
			truncate(it.Title, 30),
			truncate(it.DisplayArtist(), 20),
			truncate(it.Album, 20),
			formatLength(it.Length),
		)

	case *media.Album:
		return fmt.Sprintf("  %-30s %-20s %4s %4d songs",
			truncate(it.Title, 30),
			truncate(it.Artist, 20),
			formatYear(it.Year),
			it.SongCount,
		)

	case *media.Artist:
		return fmt.Sprintf("  %-30s %4d albums %4d songs",
			truncate(it.Name, 30),
			it.AlbumCount,
			it.SongCount,
		)

	case *media.Genre:
		return fmt.Sprintf("  %-30s %4d songs", truncate(it.Name, 30), it.SongCount)

	default:
		return "  " + item.String()
	}
}

func formatLength(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	d = d.Round(time.Second)

	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func formatYear(year int) string {
	if year <= 0 {
		return ""
	}

	return fmt.Sprint(year)
}

// renderSearch renders the search line
func (m model) renderSearch() string {
	if m.searching {
		return m.search.View()
	}

	if q := m.current().coll.Query(); q != "" {
		return helpStyle.Render(fmt.Sprintf("/ %s (%d matches)", q, m.current().view().Len()))
	}

	return ""
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && (m.confirm.pending || time.Since(m.statusMsgAge) < statusMessageDuration) {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	view := m.current().view()

	status := fmt.Sprintf("%s %d/%d | U:%d R:%d",
		m.current().name,
		view.CurrentPosition()+1,
		view.Len(),
		m.undoMgr.UndoSize(),
		m.undoMgr.RedoSize(),
	)

	if m.dryRun {
		status = "[DRY RUN] " + status
	}

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	if m.searching {
		return helpStyle.Render(" enter: keep filter | esc: clear filter")
	}

	if m.confirm.pending {
		return helpStyle.Render(" y: remove | n/esc: cancel")
	}

	return helpStyle.Render(" Tab: next page | ↑/↓/j/k: navigate | s: sort | o: order | a: A-Z | /: search | enter: play from here | p: play | d: remove | u: undo | ctrl+r: redo | q: quit")
}
