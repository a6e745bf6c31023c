package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	nameColumnWidth   = 24
	domainColumnWidth = 22
)

// renderHeader renders the top bar: logo, counts and state badges.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("sitelist", styles.Logo)}

	count := fmt.Sprintf("%d", len(m.snapshot.Websites))
	if len(m.items) != len(m.snapshot.Websites) {
		count = fmt.Sprintf("%d/%d", len(m.items), len(m.snapshot.Websites))
	}
	parts = append(parts,
		bg.Render("Sites:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text),
		bg.Render("Favorites:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Favorites)), styles.FavoriteText),
	)

	if m.snapshot.IsLoading {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Loading", styles.AccentText))
	}
	if m.snapshot.ShowFavoritesOnly {
		parts = append(parts, styles.BadgeStyle(m.theme.Favorite).Render("★ only"))
	}
	if m.snapshot.Sorted {
		parts = append(parts, styles.BadgeStyle(m.theme.Info).Render("A-Z"))
	}
	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, styles.BadgeStyle(m.theme.Danger).Render("OFFLINE"))
	case m.snapshot.Stale:
		parts = append(parts, styles.BadgeStyle(m.theme.Warning).Render("CACHED"))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderStatusLine shows, in priority order: the search input, the last
// error, a transient message, or the active search text.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	line := ""
	switch {
	case m.searching:
		line = m.search.View()
	case m.snapshot.LastError != nil:
		line = styles.DangerText.Render(describeError(m.snapshot.LastError))
		if m.endpoint != "" {
			line += "  " + styles.FaintText.Render(truncateMiddle(m.endpoint, 48))
		}
	case m.flash != "":
		line = styles.InfoText.Render(m.flash)
	case m.snapshot.SearchText != "":
		line = styles.MutedText.Render("Search: ") + styles.Text.Render(m.snapshot.SearchText)
	}
	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(line)
}

// renderList renders the visible window of the derived view.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.items) == 0 {
		msg := "No websites match the current filter."
		switch {
		case m.snapshot.IsLoading:
			msg = "Loading websites..."
		case len(m.snapshot.Websites) == 0 && m.snapshot.LastError != nil:
			msg = "No websites loaded."
		case len(m.snapshot.Websites) == 0:
			msg = "No websites."
		}
		return lipgloss.NewStyle().Height(height).Render(styles.MutedText.Render(msg))
	}

	end := m.offset + height
	if end > len(m.items) {
		end = len(m.items)
	}

	rows := make([]string, 0, height)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(rows, "\n"))
}

func (m Model) renderRow(i int) string {
	styles := m.theme.Styles()
	w := m.items[i]
	_, fav := m.snapshot.Favorites[w.ID]

	marker := " "
	if fav {
		marker = "★"
	}
	name := padRight(truncate(w.Name, nameColumnWidth), nameColumnWidth)
	domain := padRight(truncate(w.Domain(), domainColumnWidth), domainColumnWidth)
	descWidth := m.width - nameColumnWidth - domainColumnWidth - 6
	desc := ""
	if descWidth > 0 {
		desc = truncate(w.Description, descWidth)
	}

	if i == m.selected {
		plain := fmt.Sprintf(" %s %s %s %s", marker, name, domain, desc)
		return styles.Selected.Width(m.width).Render(plain)
	}
	return " " + styles.FavoriteText.Render(marker) + " " +
		styles.Text.Render(name) + " " +
		styles.MutedText.Render(domain) + " " +
		styles.FaintText.Render(desc)
}

// handleListKey processes keyboard input for the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.items)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected += m.contentHeight()
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= m.contentHeight()
	case key.Matches(msg, m.keys.Open):
		m.currentView = ViewDetail
		m.updateDetailViewport()
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if w, ok := m.selectedItem(); ok && m.store != nil {
			m.store.ToggleFavorite(w)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.OpenInBrowser):
		if w, ok := m.selectedItem(); ok {
			return m, openURLCmd(m.openURL, w.URL)
		}
		return m, nil
	}

	m.clampSelection()
	m.updateDetailViewport()
	return m, nil
}

// clampSelection keeps the selection inside the derived view and scrolls the
// window so the selection stays visible.
func (m *Model) clampSelection() {
	count := len(m.items)
	if m.selected >= count {
		m.selected = count - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	height := m.contentHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+height {
		m.offset = m.selected - height + 1
	}
	if maxOffset := count - height; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
