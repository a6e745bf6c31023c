package ui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/five82/sitelist/internal/prefs"
	"github.com/five82/sitelist/internal/state"
	"github.com/five82/sitelist/internal/website"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Endpoint  string
	LogPath   string
	ThemeName string
	PrefsPath string
	// OpenURL opens a website externally. Defaults to the system browser.
	OpenURL func(url string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	endpoint  string
	logPath   string
	prefsPath string
	openURL   func(string) error

	// UI state
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	flash       string

	// Data state
	snapshot state.Snapshot
	items    []website.Website

	// List state
	selected int
	offset   int

	// Search state
	searching bool
	search    textinput.Model

	// Detail state
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logLines    []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.ThemeDark
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	openURL := opts.OpenURL
	if openURL == nil {
		openURL = openInBrowser
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "name or description"
	search.CharLimit = 128

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:            ctx,
		store:          opts.Store,
		endpoint:       opts.Endpoint,
		logPath:        opts.LogPath,
		prefsPath:      prefsPath,
		openURL:        openURL,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		spinner:        sp,
		theme:          GetTheme(themeName),
		currentView:    ViewList,
		search:         search,
		detailViewport: viewport.New(0, 0),
		logViewport:    viewport.New(0, 0),
	}
	m.applyTheme()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		func() tea.Msg { return startFetchMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeViewports()
		m.clampSelection()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case startFetchMsg:
		return m, m.startFetch(false)

	case fetchedMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.flash = "Could not open " + msg.url + ": " + firstLine(msg.err.Error())
		} else {
			m.flash = "Opened " + msg.url
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Refresh) && m.currentView != ViewLogs:
		return m, m.startFetch(false)

	case key.Matches(msg, m.keys.Reset):
		return m, m.startFetch(true)

	case key.Matches(msg, m.keys.Sort):
		if m.store != nil {
			m.store.SortByName()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.FavoritesOnly):
		if m.store != nil {
			m.store.SetShowFavoritesOnly(!m.snapshot.ShowFavoritesOnly)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.currentView = ViewList
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// startFetch kicks off a fetch (or a reset, which clears favorites first) and
// returns the command that waits for it to land.
func (m *Model) startFetch(reset bool) tea.Cmd {
	if m.store == nil {
		return nil
	}
	var done <-chan struct{}
	if reset {
		done = m.store.ResetFavoritesAndFilter(m.ctx)
	} else {
		done = m.store.FetchWebsites(m.ctx)
	}
	m.refresh()
	return tea.Batch(waitFetchCmd(done), m.spinner.Tick)
}

// refresh pulls a consistent snapshot and derived view from the store.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	prev, hadPrev := m.selectedItem()
	m.snapshot, m.items = m.store.View()
	if hadPrev {
		if _, idx, ok := lo.FindIndexOf(m.items, func(w website.Website) bool { return w.ID == prev.ID }); ok {
			m.selected = idx
		}
	}
	m.clampSelection()
	m.updateDetailViewport()
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.search.PromptStyle = styles.AccentText
	m.search.TextStyle = styles.Text
	m.search.PlaceholderStyle = styles.FaintText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText
}

// selectedItem returns the highlighted website, if any.
func (m Model) selectedItem() (website.Website, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return website.Website{}, false
	}
	return m.items[m.selected], true
}

// contentHeight is the number of rows left for the active view after the
// header, status and footer lines.
func (m Model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) resizeViewports() {
	m.detailViewport.Width = m.width
	m.detailViewport.Height = m.contentHeight()
	m.logViewport.Width = m.width
	m.logViewport.Height = m.contentHeight()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.detailViewport.View()
	case ViewLogs:
		return m.logViewport.View()
	default:
		return m.renderList()
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// Messages

type startFetchMsg struct{}

type fetchedMsg struct{}

type openedMsg struct {
	url string
	err error
}

// Commands

func waitFetchCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return fetchedMsg{}
	}
}

func openURLCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

func openInBrowser(url string) error {
	return browser.OpenURL(url)
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	// Keep xdg-open chatter off the alt screen.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(m.ctx)
	g := new(errgroup.Group)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})
	return g.Wait()
}
