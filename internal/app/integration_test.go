package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

// TestLiveEventStream runs the full program against a bus subscription.
func TestLiveEventStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping interactive test in short mode")
	}

	bus := schedule.NewBus()
	events, cancel := bus.Subscribe(0)
	defer cancel()

	m := newTestModel(t, true, events)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	bus.Publish(schedule.Event{Type: schedule.EventThemeApplied, Name: "Nord"})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("theme_applied: Nord"))
	}, teatest.WithDuration(3*time.Second))

	bus.Close()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Scheduler stopped"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if len(final.recent) != 1 {
		t.Errorf("recent = %d, want 1", len(final.recent))
	}
}

// TestInteractivePalette drives the palette through key presses.
func TestInteractivePalette(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping interactive test in short mode")
	}

	m := newTestModel(t, true, nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	actions := []struct {
		name string
		key  tea.KeyMsg
		wait time.Duration
	}{
		{"open_palette", tea.KeyMsg{Type: tea.KeyCtrlP}, 50 * time.Millisecond},
		{"type", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("gruvbox")}, 50 * time.Millisecond},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, 50 * time.Millisecond},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, 50 * time.Millisecond},
		{"select", tea.KeyMsg{Type: tea.KeyEnter}, 100 * time.Millisecond},
		{"open_help", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, 50 * time.Millisecond},
		{"close_help", tea.KeyMsg{Type: tea.KeyEscape}, 50 * time.Millisecond},
		{"quit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, 50 * time.Millisecond},
	}
	for _, action := range actions {
		t.Logf("Action: %s", action.name)
		tm.Send(action.key)
		time.Sleep(action.wait)
	}

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	final := tm.FinalModel(t).(Model)
	if final.previewID == "" {
		t.Error("expected a gruvbox preview to be selected")
	}
}
