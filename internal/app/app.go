// Package app is the live status view: the schedule, the entry in effect, the
// live selection and recent scheduler events, styled with the active theme.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/ui/icons"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

// SelectionReader reads the live selection.
type SelectionReader interface {
	Current(ctx context.Context) (schedule.Selection, error)
}

// Options configures the status view.
type Options struct {
	Registry     *schedule.Registry
	Store        SelectionReader
	Events       <-chan schedule.Event
	NoColor      bool
	EventHistory int
	Now          func() time.Time
}

type Model struct {
	registry *schedule.Registry
	store    SelectionReader
	events   <-chan schedule.Event
	now      func() time.Time
	noColor  bool
	history  int

	theme     themes.Theme
	icons     icons.Set
	previewID string

	selection    schedule.Selection
	entries      []schedule.Entry
	recent       []schedule.Event
	clock        time.Time
	status       string
	errorMsg     string
	streamClosed bool
	width        int
	height       int
	showHelp     bool

	paletteOpen bool
	palette     *PaletteState
	diagOpen    bool
	diagnostics *DiagnosticsState
}

func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	history := opts.EventHistory
	if history <= 0 {
		history = 20
	}
	m := Model{
		registry:    opts.Registry,
		store:       opts.Store,
		events:      opts.Events,
		now:         now,
		noColor:     opts.NoColor,
		history:     history,
		theme:       themes.Get(themes.DefaultID, opts.NoColor),
		icons:       icons.Get(icons.DefaultID),
		clock:       now(),
		status:      "Waiting for scheduler…",
		diagnostics: NewDiagnosticsState(),
	}
	m.palette = NewPaletteState(NewCommandRegistry())
	m.refreshEntries()
	return m
}

type selectionMsg struct {
	sel schedule.Selection
	err error
}

type eventMsg schedule.Event

type streamClosedMsg struct{}

type clockMsg time.Time

type clearErrorMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSelectionCmd(), m.watchEventsCmd(), m.clockCmd())
}

func (m Model) loadSelectionCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sel, err := m.store.Current(ctx)
		return selectionMsg{sel: sel, err: err}
	}
}

func (m Model) watchEventsCmd() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m Model) clearErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func (m Model) setError(err error) (Model, tea.Cmd) {
	m.errorMsg = err.Error()
	return m, m.clearErrorCmd()
}

func (m *Model) refreshEntries() {
	if m.registry != nil {
		m.entries = m.registry.Entries()
	}
}

// applyStyle restyles the view for the live selection unless a preview is set.
func (m *Model) applyStyle() {
	id := m.selection.Theme
	if m.previewID != "" {
		id = m.previewID
	}
	m.theme = themes.Get(id, m.noColor)
	m.icons = icons.Get(m.selection.IconTheme)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case clockMsg:
		m.clock = m.now()
		return m, m.clockCmd()
	case clearErrorMsg:
		m.errorMsg = ""
		return m, nil
	case selectionMsg:
		if msg.err != nil {
			return m.setError(fmt.Errorf("read selection: %w", msg.err))
		}
		m.selection = msg.sel
		m.applyStyle()
		return m, nil
	case streamClosedMsg:
		m.streamClosed = true
		m.status = "Scheduler stopped"
		return m, nil
	case eventMsg:
		return m.handleEvent(schedule.Event(msg))
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleEvent(e schedule.Event) (tea.Model, tea.Cmd) {
	m.diagnostics.RecordEvent(e)
	m.recent = append(m.recent, e)
	if len(m.recent) > m.history {
		m.recent = m.recent[len(m.recent)-m.history:]
	}

	cmds := []tea.Cmd{m.watchEventsCmd()}
	switch e.Type {
	case schedule.EventThemeRegistered, schedule.EventCleared, schedule.EventThemeUnregistered:
		m.refreshEntries()
		m.status = fmt.Sprintf("%d mappings registered", len(m.entries))
	case schedule.EventThemeApplied, schedule.EventIconThemeApplied:
		m.status = e.String()
		cmds = append(cmds, m.loadSelectionCmd())
	case schedule.EventError:
		m.errorMsg = e.String()
		cmds = append(cmds, m.clearErrorCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.paletteOpen {
		return m.handlePaletteKey(msg)
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "ctrl+p", ":":
		m.paletteOpen = true
		m.palette.Reset()
	case "ctrl+d":
		m.diagOpen = !m.diagOpen
	case "esc":
		m.showHelp = false
		m.diagOpen = false
	case "r":
		m.refreshEntries()
		return m, m.loadSelectionCmd()
	}
	return m, nil
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.paletteOpen = false
		return m, nil
	case tea.KeyEnter:
		m.paletteOpen = false
		if cmd := m.palette.SelectedCommand(); cmd != nil && cmd.Handler != nil {
			return cmd.Handler(&m)
		}
		return m, nil
	case tea.KeyUp:
		m.palette.SelectUp()
	case tea.KeyDown:
		m.palette.SelectDown()
	case tea.KeyLeft:
		m.palette.CursorLeft()
	case tea.KeyRight:
		m.palette.CursorRight()
	case tea.KeyBackspace:
		m.palette.Backspace()
	case tea.KeyDelete:
		m.palette.Delete()
	case tea.KeySpace:
		m.palette.InsertChar(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.palette.InsertChar(r)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.paletteOpen {
		return m.palette.Render(&m)
	}
	if m.diagOpen {
		return m.diagnostics.Render(&m)
	}
	if m.showHelp {
		return m.renderHelp()
	}

	title := "themeswitch ▸ Status"
	if m.previewID != "" {
		title += " (preview: " + m.theme.Label + ")"
	}
	top := m.theme.Title.Render(title)
	status := m.theme.Dim.Render(m.status)
	if m.errorMsg != "" {
		status = m.theme.Error.Render(m.icons.Error + " " + m.errorMsg)
	}

	sections := []string{top, m.renderSummary(), m.renderSchedule(), m.renderEvents(), status}
	return m.fit(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// fit trims output to the window height so the terminal never scrolls.
func (m Model) fit(s string) string {
	if m.height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= m.height {
		return s
	}
	return strings.Join(lines[:m.height], "\n")
}

func (m Model) renderSummary() string {
	var b strings.Builder
	now := m.clock
	b.WriteString(fmt.Sprintf("%s %s  ", m.icons.Clock, schedule.ClockOf(now)))

	current, ok := schedule.Resolve(m.entries, now)
	if !ok {
		b.WriteString(m.theme.Dim.Render("No mappings registered"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.theme.Text.Render("In effect: "))
		b.WriteString(m.theme.Accent.Render(entryLabel(current)))
		b.WriteString("\n")
		if next, at, ok := schedule.Next(m.entries, now); ok {
			wait := at.Sub(now).Round(time.Minute)
			b.WriteString(m.theme.Dim.Render(fmt.Sprintf("Next change: %s (in %s)", entryLabel(next), formatWait(wait))))
			b.WriteString("\n")
		}
	}

	theme, icon := orNone(m.selection.Theme), orNone(m.selection.IconTheme)
	b.WriteString(m.theme.Text.Render(fmt.Sprintf("Live: theme %s · icons %s", theme, icon)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSchedule() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Schedule") + "\n")
	if len(m.entries) == 0 {
		b.WriteString(m.theme.Dim.Render("  (empty)") + "\n")
		return b.String()
	}
	current, _ := schedule.Resolve(m.entries, m.clock)

	// Entries are stored latest first; show them in day order.
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		marker := "  "
		style := m.theme.Text
		if sameEntry(e, current) {
			marker = m.theme.Highlight.Render("▸ ")
			style = m.theme.Accent
		}
		glyph := m.icons.Day
		if e.At.Hour < 6 || e.At.Hour >= 18 {
			glyph = m.icons.Night
		}
		b.WriteString(marker + style.Render(fmt.Sprintf("%s %s  %s", glyph, e.At, entryLabel(e))) + "\n")
	}
	return b.String()
}

func (m Model) renderEvents() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Recent events") + "\n")
	if len(m.recent) == 0 {
		b.WriteString(m.theme.Dim.Render("  (none yet)") + "\n")
		return b.String()
	}
	for i := len(m.recent) - 1; i >= 0; i-- {
		e := m.recent[i]
		stamp := e.At.Format("15:04:05")
		switch e.Type {
		case schedule.EventError:
			b.WriteString(m.theme.Error.Render(fmt.Sprintf("  %s %s %s", m.icons.Error, stamp, e)) + "\n")
		case schedule.EventThemeApplied, schedule.EventIconThemeApplied:
			b.WriteString(m.theme.Success.Render(fmt.Sprintf("  %s %s %s", m.icons.Applied, stamp, e)) + "\n")
		default:
			b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  %s %s %s", m.icons.Pending, stamp, e)) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderHelp() string {
	lines := []string{
		m.theme.Title.Render("Help"),
		"",
		"  q / Ctrl+C    : Quit",
		"  ?             : Toggle help",
		"  : / Ctrl+P    : Command palette",
		"  Ctrl+D        : Diagnostics",
		"  r             : Refresh",
		"  Esc           : Close overlay",
	}
	return strings.Join(lines, "\n")
}

func entryLabel(e schedule.Entry) string {
	parts := make([]string, 0, 2)
	if e.Theme != nil {
		parts = append(parts, e.Theme.Name())
	}
	if e.IconTheme != nil {
		parts = append(parts, e.IconTheme.Name())
	}
	if len(parts) == 0 {
		return "(nothing)"
	}
	return strings.Join(parts, " / ")
}

func sameEntry(a, b schedule.Entry) bool {
	return a.At == b.At && a.Theme == b.Theme && a.IconTheme == b.IconTheme
}

func formatWait(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", h, mins)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
