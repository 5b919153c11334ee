package schedule

import (
	"log/slog"
	"sort"
	"sync"
)

// Mapping is the raw, unvalidated form of a schedule entry as it is stored in
// configuration.
type Mapping struct {
	Time      string
	Theme     string
	IconTheme string
}

// ThemeRef points at an installed theme.
type ThemeRef struct {
	ID    string
	Label string
}

// Name returns the label, falling back to the id.
func (r ThemeRef) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// Entry is a registered mapping. Theme and IconTheme are nil when the stored id
// did not match any installed theme.
type Entry struct {
	At        Clock
	Theme     *ThemeRef
	IconTheme *ThemeRef
}

// Catalog enumerates installed themes for id resolution.
type Catalog interface {
	ColorThemes() []ThemeRef
	IconThemes() []ThemeRef
}

// Registry holds registered entries in descending time-of-day order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	catalog Catalog
	bus     *Bus
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. Events are published on bus.
func NewRegistry(catalog Catalog, bus *Bus, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{catalog: catalog, bus: bus, logger: logger}
}

// Register validates and merges mappings into the registry. Entries with an
// invalid time are reported on the error channel and skipped; the rest of the
// batch is still registered. One theme_registered event is emitted per accepted
// entry, in input order, after the merge.
func (r *Registry) Register(mappings ...Mapping) {
	var colors, icons []ThemeRef
	if r.catalog != nil {
		colors = r.catalog.ColorThemes()
		icons = r.catalog.IconThemes()
	}

	accepted := make([]Entry, 0, len(mappings))
	for _, m := range mappings {
		at, err := ParseClock(m.Time)
		if err != nil {
			r.logger.Warn("rejecting mapping", slog.String("time", m.Time), slog.String("theme", m.Theme))
			r.publish(Event{Type: EventError, Err: &ValidationError{Time: m.Time, Theme: m.Theme, Err: err}})
			continue
		}
		accepted = append(accepted, Entry{
			At:        at,
			Theme:     lookup(colors, m.Theme),
			IconTheme: lookup(icons, m.IconTheme),
		})
	}

	r.mu.Lock()
	merged := make([]Entry, 0, len(r.entries)+len(accepted))
	merged = append(merged, r.entries...)
	merged = append(merged, accepted...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].At.Minutes() > merged[j].At.Minutes()
	})
	r.entries = merged
	r.mu.Unlock()

	for _, e := range accepted {
		r.publish(Event{Type: EventThemeRegistered, Name: entryName(e), When: e.At.String()})
	}
}

// UnregisterAll removes every entry and emits cleared.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
	r.publish(Event{Type: EventCleared})
}

// Entries returns a copy of the registered entries in descending order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) publish(e Event) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}

func lookup(refs []ThemeRef, id string) *ThemeRef {
	if id == "" {
		return nil
	}
	for _, ref := range refs {
		if ref.ID == id {
			found := ref
			return &found
		}
	}
	return nil
}

func entryName(e Entry) string {
	switch {
	case e.Theme != nil:
		return e.Theme.Name()
	case e.IconTheme != nil:
		return e.IconTheme.Name()
	default:
		return "(none)"
	}
}
