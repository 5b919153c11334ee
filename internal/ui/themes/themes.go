// Package themes holds the built-in color themes that can be scheduled.
package themes

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

// Theme is a set of terminal styles.
type Theme struct {
	ID        string
	Label     string
	Dark      bool
	Accent    lipgloss.Style
	Dim       lipgloss.Style
	Text      lipgloss.Style
	Title     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Border    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultID is used when a requested theme is not installed.
const DefaultID = "rainbow"

var (
	mu       sync.RWMutex
	registry = make(map[string]Theme)
)

// Register installs a theme, replacing any theme with the same id.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.ID] = t
}

// Get returns the theme for id. Unknown ids fall back to DefaultID; noColor
// always yields the nocolor theme.
func Get(id string, noColor bool) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		if t, ok := registry["nocolor"]; ok {
			return t
		}
	}
	if t, ok := registry[id]; ok {
		return t
	}
	if t, ok := registry[DefaultID]; ok {
		return t
	}
	return Theme{ID: "default", Label: "Default"}
}

// Valid reports whether id is installed.
func Valid(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[id]
	return ok
}

// IDs returns the installed theme ids, sorted.
func IDs() []string {
	mu.RLock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Catalog lists the installed themes as schedule references, sorted by id.
func Catalog() []schedule.ThemeRef {
	ids := IDs()
	mu.RLock()
	defer mu.RUnlock()
	refs := make([]schedule.ThemeRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, schedule.ThemeRef{ID: id, Label: registry[id].Label})
	}
	return refs
}
