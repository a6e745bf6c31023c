package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchKey routes input to the search box. The derived view follows
// every keystroke; enter keeps the text and esc clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConfirmSearch):
		m.searching = false
		m.search.Blur()
		m.applySearch()
		return m, nil
	case key.Matches(msg, m.keys.CancelSearch):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return m, cmd
}

// applySearch pushes the search box text to the store.
func (m *Model) applySearch() {
	if m.store == nil {
		return
	}
	text := m.search.Value()
	if text == m.snapshot.SearchText {
		return
	}
	m.store.SetSearchText(text)
	m.selected = 0
	m.offset = 0
	m.refresh()
}
