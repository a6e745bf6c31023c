package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sitelist/internal/logtail"
)

const logTailLines = 500

type logLinesMsg struct {
	lines []string
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logLinesMsg{lines: []string{"Logging to stderr; no log file to show."}}
		}
		raw, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logLinesMsg{lines: []string{"Cannot read " + path + ": " + err.Error()}}
		}
		if len(raw) == 0 {
			return logLinesMsg{lines: []string{"No log entries yet in " + path}}
		}
		return logLinesMsg{lines: logtail.FormatLines(raw)}
	}
}

// updateLogViewport re-renders the log lines and follows the tail.
func (m *Model) updateLogViewport() {
	if len(m.logLines) == 0 {
		return
	}
	styles := m.theme.Styles()
	rendered := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		rendered = append(rendered, colorizeLogLine(line, styles))
	}
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
	m.logViewport.GotoBottom()
}

var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`\b(DEBUG|INFO|WARN|ERROR|DPANIC|PANIC|FATAL)\b`)
	separatorRe = regexp.MustCompile(`\s*–\s*`)
)

// colorizeLogLine styles a line produced by logtail.Format.
func colorizeLogLine(line string, styles Styles) string {
	if strings.TrimSpace(line) == "" {
		return line
	}

	if content, found := strings.CutPrefix(line, "    - "); found {
		if k, v, ok := strings.Cut(content, ": "); ok {
			return "    " + styles.MutedText.Render(k+":") + " " + styles.Text.Render(v)
		}
		return "    " + styles.Text.Render(content)
	}

	var result strings.Builder
	remaining := line

	if matches := timestampRe.FindStringSubmatchIndex(remaining); len(matches) > 0 {
		start, end := matches[2], matches[3]
		result.WriteString(styles.FaintText.Render(remaining[start:end]))
		remaining = remaining[end:]
	}

	if matches := levelRe.FindStringSubmatchIndex(remaining); len(matches) > 0 && matches[0] <= 1 {
		start, end := matches[2], matches[3]
		level := remaining[start:end]
		if result.Len() > 0 {
			result.WriteString(" ")
		}
		result.WriteString(levelStyle(level, styles).Bold(true).Render(level))
		remaining = remaining[end:]
	}

	if parts := separatorRe.Split(remaining, 2); len(parts) == 2 {
		result.WriteString(" ")
		result.WriteString(styles.FaintText.Render("–"))
		result.WriteString(" ")
		result.WriteString(styles.Text.Render(strings.TrimSpace(parts[1])))
	} else {
		result.WriteString(styles.Text.Render(remaining))
	}
	return result.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, readLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}
