// Package icons holds the built-in icon themes: glyph sets used to decorate
// status output.
package icons

import (
	"sort"
	"sync"

	"github.com/themeswitch/themeswitch/internal/schedule"
)

// Set is an icon theme.
type Set struct {
	ID      string
	Label   string
	Clock   string
	Applied string
	Error   string
	Pending string
	Day     string
	Night   string
}

// DefaultID is used when a requested icon theme is not installed.
const DefaultID = "ascii"

var (
	mu       sync.RWMutex
	registry = map[string]Set{}
)

func init() {
	for _, s := range []Set{
		{ID: "ascii", Label: "ASCII", Clock: "@", Applied: "*", Error: "!", Pending: "-", Day: "o", Night: "c"},
		{ID: "emoji", Label: "Emoji", Clock: "🕒", Applied: "✅", Error: "❌", Pending: "⏳", Day: "☀️", Night: "🌙"},
		{ID: "unicode", Label: "Unicode Symbols", Clock: "◷", Applied: "✓", Error: "✗", Pending: "…", Day: "☼", Night: "☾"},
		{ID: "nerd", Label: "Nerd Font", Clock: "\uf017", Applied: "\uf00c", Error: "\uf00d", Pending: "\uf252", Day: "\uf185", Night: "\uf186"},
	} {
		Register(s)
	}
}

// Register installs an icon set, replacing any set with the same id.
func Register(s Set) {
	mu.Lock()
	defer mu.Unlock()
	registry[s.ID] = s
}

// Get returns the icon set for id, or the default set.
func Get(id string) Set {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := registry[id]; ok {
		return s
	}
	return registry[DefaultID]
}

// Valid reports whether id is installed.
func Valid(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[id]
	return ok
}

// Catalog lists the installed icon themes, sorted by id.
func Catalog() []schedule.ThemeRef {
	mu.RLock()
	refs := make([]schedule.ThemeRef, 0, len(registry))
	for _, s := range registry {
		refs = append(refs, schedule.ThemeRef{ID: s.ID, Label: s.Label})
	}
	mu.RUnlock()
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}
