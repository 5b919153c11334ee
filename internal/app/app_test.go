package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/ui/icons"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

type builtinCatalog struct{}

func (builtinCatalog) ColorThemes() []schedule.ThemeRef { return themes.Catalog() }
func (builtinCatalog) IconThemes() []schedule.ThemeRef  { return icons.Catalog() }

type fakeSelection struct {
	sel schedule.Selection
	err error
}

func (f *fakeSelection) Current(context.Context) (schedule.Selection, error) {
	return f.sel, f.err
}

func noon() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, noColor bool, events <-chan schedule.Event) Model {
	t.Helper()
	reg := schedule.NewRegistry(builtinCatalog{}, nil, nil)
	reg.Register(
		schedule.Mapping{Time: "07:00", Theme: "solarized-light", IconTheme: "unicode"},
		schedule.Mapping{Time: "19:00", Theme: "nord", IconTheme: "unicode"},
	)
	return New(Options{
		Registry:     reg,
		Store:        &fakeSelection{sel: schedule.Selection{Theme: "solarized-light", IconTheme: "unicode"}},
		Events:       events,
		NoColor:      noColor,
		EventHistory: 3,
		Now:          noon,
	})
}

func updateModel(m Model, msg tea.Msg) (Model, tea.Cmd) {
	nm, cmd := m.Update(msg)
	return nm.(Model), cmd
}

func TestViewShowsScheduleAndSelection(t *testing.T) {
	m := newTestModel(t, true, nil)
	m, _ = updateModel(m, selectionMsg{sel: schedule.Selection{Theme: "solarized-light", IconTheme: "unicode"}})

	out := m.View()
	for _, want := range []string{
		"In effect: Solarized Light / Unicode Symbols",
		"Next change: Nord / Unicode Symbols (in 7h00m)",
		"Live: theme solarized-light · icons unicode",
		"07:00  Solarized Light",
		"19:00  Nord",
		"(none yet)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q\nGot:\n%s", want, out)
		}
	}

	// Day order: 07:00 is listed before 19:00.
	if strings.Index(out, "07:00") > strings.Index(out, "19:00") {
		t.Error("schedule not listed in day order")
	}
}

func TestViewEmptySchedule(t *testing.T) {
	m := New(Options{Registry: schedule.NewRegistry(nil, nil, nil), NoColor: true, Now: noon})
	out := m.View()
	if !strings.Contains(out, "No mappings registered") || !strings.Contains(out, "(empty)") {
		t.Errorf("unexpected view for empty schedule:\n%s", out)
	}
	if !strings.Contains(out, "Live: theme (none)") {
		t.Errorf("missing empty selection:\n%s", out)
	}
}

func TestSelectionRestylesView(t *testing.T) {
	m := newTestModel(t, false, nil)
	if m.theme.ID != themes.DefaultID {
		t.Fatalf("initial theme = %q, want %q", m.theme.ID, themes.DefaultID)
	}

	m, _ = updateModel(m, selectionMsg{sel: schedule.Selection{Theme: "nord", IconTheme: "emoji"}})
	if m.theme.ID != "nord" {
		t.Errorf("theme = %q, want nord", m.theme.ID)
	}
	if m.icons.ID != "emoji" {
		t.Errorf("icons = %q, want emoji", m.icons.ID)
	}

	m, _ = updateModel(m, selectionMsg{err: errors.New("db locked")})
	if !strings.Contains(m.errorMsg, "db locked") {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}
	if m.theme.ID != "nord" {
		t.Error("failed read should keep the current style")
	}
}

func TestEventsAreRecordedAndCapped(t *testing.T) {
	m := newTestModel(t, true, nil)

	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		m, cmd = updateModel(m, eventMsg(schedule.Event{Type: schedule.EventThemeApplied, Name: "Nord", At: noon()}))
	}
	if len(m.recent) != 3 {
		t.Errorf("recent = %d events, want 3", len(m.recent))
	}
	if cmd == nil {
		t.Error("applied event should reload the selection")
	}
	if m.status != "theme_applied: Nord" {
		t.Errorf("status = %q", m.status)
	}
	if m.diagnostics.Applied != 5 {
		t.Errorf("diagnostics applied = %d, want 5", m.diagnostics.Applied)
	}
	if !strings.Contains(m.View(), "12:00:00 theme_applied: Nord") {
		t.Errorf("event not rendered:\n%s", m.View())
	}
}

func TestErrorEventShowsMessage(t *testing.T) {
	m := newTestModel(t, true, nil)
	err := &schedule.ApplyError{Kind: "theme", ID: "nord", Err: errors.New("hook failed")}
	m, _ = updateModel(m, eventMsg(schedule.Event{Type: schedule.EventError, Err: err, At: noon()}))

	if !strings.Contains(m.errorMsg, "hook failed") {
		t.Errorf("errorMsg = %q", m.errorMsg)
	}
	if m.diagnostics.Errors != 1 {
		t.Errorf("diagnostics errors = %d", m.diagnostics.Errors)
	}

	m, _ = updateModel(m, clearErrorMsg{})
	if m.errorMsg != "" {
		t.Error("error not cleared")
	}
}

func TestRegistrationEventRefreshesSchedule(t *testing.T) {
	reg := schedule.NewRegistry(builtinCatalog{}, nil, nil)
	m := New(Options{Registry: reg, NoColor: true, Now: noon})
	if len(m.entries) != 0 {
		t.Fatal("expected empty schedule")
	}

	reg.Register(schedule.Mapping{Time: "08:00", Theme: "dracula"})
	m, _ = updateModel(m, eventMsg(schedule.Event{Type: schedule.EventThemeRegistered, Name: "Dracula", When: "08:00"}))
	if len(m.entries) != 1 {
		t.Errorf("entries = %d, want 1", len(m.entries))
	}

	reg.UnregisterAll()
	m, _ = updateModel(m, eventMsg(schedule.Event{Type: schedule.EventCleared}))
	if len(m.entries) != 0 {
		t.Errorf("entries = %d after clear, want 0", len(m.entries))
	}
}

func TestStreamClosed(t *testing.T) {
	m := newTestModel(t, true, nil)
	m, _ = updateModel(m, streamClosedMsg{})
	if !m.streamClosed || m.status != "Scheduler stopped" {
		t.Errorf("streamClosed=%v status=%q", m.streamClosed, m.status)
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	tests := []struct {
		name     string
		key      tea.KeyMsg
		validate func(t *testing.T, m Model, cmd tea.Cmd)
	}{
		{
			name: "question_toggles_help",
			key:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}},
			validate: func(t *testing.T, m Model, _ tea.Cmd) {
				if !m.showHelp || !strings.Contains(m.View(), "Command palette") {
					t.Error("expected help to be shown")
				}
			},
		},
		{
			name: "ctrl_d_opens_diagnostics",
			key:  tea.KeyMsg{Type: tea.KeyCtrlD},
			validate: func(t *testing.T, m Model, _ tea.Cmd) {
				if !m.diagOpen || !strings.Contains(m.View(), "Diagnostics") {
					t.Error("expected diagnostics overlay")
				}
			},
		},
		{
			name: "colon_opens_palette",
			key:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}},
			validate: func(t *testing.T, m Model, _ tea.Cmd) {
				if !m.paletteOpen || !strings.Contains(m.View(), "Command Palette") {
					t.Error("expected palette")
				}
			},
		},
		{
			name: "q_quits",
			key:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}},
			validate: func(t *testing.T, _ Model, cmd tea.Cmd) {
				if cmd == nil {
					t.Fatal("expected quit command")
				}
				if _, ok := cmd().(tea.QuitMsg); !ok {
					t.Error("expected tea.QuitMsg")
				}
			},
		},
		{
			name: "r_refreshes",
			key:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}},
			validate: func(t *testing.T, _ Model, cmd tea.Cmd) {
				if cmd == nil {
					t.Fatal("expected selection reload")
				}
				if msg, ok := cmd().(selectionMsg); !ok || msg.sel.Theme != "solarized-light" {
					t.Errorf("unexpected msg %#v", msg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, true, nil)
			m, cmd := updateModel(m, tt.key)
			tt.validate(t, m, cmd)
		})
	}
}

func TestPalettePreviewDoesNotChangeSelection(t *testing.T) {
	m := newTestModel(t, false, nil)
	m, _ = updateModel(m, selectionMsg{sel: schedule.Selection{Theme: "solarized-light"}})

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Preview: Dracula")})
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.paletteOpen {
		t.Fatal("palette should close on enter")
	}
	if m.previewID != "dracula" || m.theme.ID != "dracula" {
		t.Errorf("preview=%q theme=%q, want dracula", m.previewID, m.theme.ID)
	}
	if m.selection.Theme != "solarized-light" {
		t.Error("preview must not touch the selection")
	}
	if !strings.Contains(m.View(), "(preview: Dracula)") {
		t.Error("title should mark the preview")
	}

	// A new selection keeps the preview until it is reset.
	m, _ = updateModel(m, selectionMsg{sel: schedule.Selection{Theme: "nord"}})
	if m.theme.ID != "dracula" {
		t.Errorf("theme = %q, want dracula while previewing", m.theme.ID)
	}

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Live Theme")})
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.previewID != "" || m.theme.ID != "nord" {
		t.Errorf("preview=%q theme=%q after reset", m.previewID, m.theme.ID)
	}
}

func TestPaletteEscapeCloses(t *testing.T) {
	m := newTestModel(t, true, nil)
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	m, cmd := updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil || !m.paletteOpen {
		t.Fatal("q inside the palette is input, not quit")
	}
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.paletteOpen {
		t.Error("esc should close the palette")
	}
}

func TestViewFitsHeight(t *testing.T) {
	for _, height := range []int{5, 10, 24} {
		m := newTestModel(t, true, nil)
		m, _ = updateModel(m, tea.WindowSizeMsg{Width: 80, Height: height})
		for i := 0; i < 3; i++ {
			m, _ = updateModel(m, eventMsg(schedule.Event{Type: schedule.EventCleared, At: noon()}))
		}
		if got := lipgloss.Height(m.View()); got > height {
			t.Errorf("height %d: view is %d lines", height, got)
		}
	}
}

func TestFormatWait(t *testing.T) {
	tests := map[time.Duration]string{
		30 * time.Second:               "<1m",
		45 * time.Minute:               "45m",
		7 * time.Hour:                  "7h00m",
		23*time.Hour + 59*time.Minute: "23h59m",
	}
	for in, want := range tests {
		if got := formatWait(in); got != want {
			t.Errorf("formatWait(%v) = %q, want %q", in, got, want)
		}
	}
}
