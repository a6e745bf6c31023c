package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/five82/sitelist/internal/website"
)

// detailMarkdown builds the markdown document shown in the detail pane.
func detailMarkdown(w website.Website, favorite bool) string {
	var b strings.Builder

	name := strings.TrimSpace(w.Name)
	if name == "" {
		name = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if favorite {
		b.WriteString("★ Favorite\n\n")
	}
	if desc := strings.TrimSpace(w.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| URL | %s |\n", markdownCell(w.URL))
	if domain := w.Domain(); domain != "" {
		fmt.Fprintf(&b, "| Domain | %s |\n", markdownCell(domain))
	}
	fmt.Fprintf(&b, "| Icon | %s |\n", markdownCell(w.Icon))
	b.WriteString("\nPress `o` to open the website, `f` to toggle favorite, `esc` to go back.\n")
	return b.String()
}

func markdownCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.ReplaceAll(value, "|", "\\|")
}

// renderMarkdown renders md for the terminal, falling back to the raw text
// when glamour fails.
func renderMarkdown(md, style string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// updateDetailViewport re-renders the selected website into the detail pane.
// It does nothing unless the detail view is showing.
func (m *Model) updateDetailViewport() {
	if m.currentView != ViewDetail || !m.ready {
		return
	}
	w, ok := m.selectedItem()
	if !ok {
		m.detailViewport.SetContent(m.theme.Styles().MutedText.Render("Nothing selected."))
		return
	}
	_, fav := m.snapshot.Favorites[w.ID]
	m.detailViewport.SetContent(renderMarkdown(detailMarkdown(w, fav), m.theme.MarkdownStyle, m.width-2))
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.OpenInBrowser):
		if w, ok := m.selectedItem(); ok {
			return m, openURLCmd(m.openURL, w.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if w, ok := m.selectedItem(); ok && m.store != nil {
			m.store.ToggleFavorite(w)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}
