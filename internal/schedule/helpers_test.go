package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeCatalog struct {
	colors []ThemeRef
	icons  []ThemeRef
}

func (c fakeCatalog) ColorThemes() []ThemeRef { return c.colors }
func (c fakeCatalog) IconThemes() []ThemeRef  { return c.icons }

func testCatalog() fakeCatalog {
	return fakeCatalog{
		colors: []ThemeRef{
			{ID: "theme-past", Label: "Past"},
			{ID: "theme-future", Label: "Future"},
			{ID: "theme-1300", Label: "1 PM"},
			{ID: "theme-1400", Label: "2 PM"},
			{ID: "nord", Label: "Nord"},
			{ID: "dracula", Label: "Dracula"},
		},
		icons: []ThemeRef{
			{ID: "emoji", Label: "Emoji"},
			{ID: "ascii", Label: "ASCII"},
		},
	}
}

// fakeStore records apply calls and serves a mutable live selection.
type fakeStore struct {
	mu         sync.Mutex
	current    Selection
	themeCalls []string
	iconCalls  []string
	ticks      int
	themeErr   error
	currentErr error
	onCurrent  func()
}

func (f *fakeStore) Current(context.Context) (Selection, error) {
	f.mu.Lock()
	f.ticks++
	hook := f.onCurrent
	cur, err := f.current, f.currentErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return cur, err
}

func (f *fakeStore) ApplyTheme(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themeCalls = append(f.themeCalls, id)
	if f.themeErr != nil {
		return f.themeErr
	}
	f.current.Theme = id
	return nil
}

func (f *fakeStore) ApplyIconTheme(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iconCalls = append(f.iconCalls, id)
	f.current.IconTheme = id
	return nil
}

func (f *fakeStore) snapshot() (themes, icons []string, ticks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.themeCalls...), append([]string(nil), f.iconCalls...), f.ticks
}

var errStoreDown = errors.New("store unavailable")

func fixedNow(hour, minute int) func() time.Time {
	t := time.Date(2025, 1, 1, hour, minute, 0, 0, time.Local)
	return func() time.Time { return t }
}

// collect drains events from ch until n have arrived or the deadline passes.
func collect(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	var out []Event
	deadline := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, got %d: %v", n, len(out), out)
		}
	}
	return out
}

// waitFor polls cond until it holds or fails the test.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
