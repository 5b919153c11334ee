package settings

import (
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/ui/icons"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

// Catalog lists installed themes: the built-in registries plus themes declared
// in the config file. A declared id that matches a built-in one overrides its
// label.
type Catalog struct {
	mu     sync.RWMutex
	colors []schedule.ThemeRef
	icons  []schedule.ThemeRef
}

// NewCatalog builds the catalog from the built-in registries and extras.
func NewCatalog(extras config.ThemesConfig) *Catalog {
	c := &Catalog{}
	c.Reset(extras)
	return c
}

// Reset rebuilds the catalog with a new set of declared themes.
func (c *Catalog) Reset(extras config.ThemesConfig) {
	colors := merge(themes.Catalog(), extras.ExtraColor)
	iconSets := merge(icons.Catalog(), extras.ExtraIcon)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors, c.icons = colors, iconSets
}

// ColorThemes implements schedule.Catalog.
func (c *Catalog) ColorThemes() []schedule.ThemeRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]schedule.ThemeRef(nil), c.colors...)
}

// IconThemes implements schedule.Catalog.
func (c *Catalog) IconThemes() []schedule.ThemeRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]schedule.ThemeRef(nil), c.icons...)
}

// ColorTheme looks up a color theme by id.
func (c *Catalog) ColorTheme(id string) (schedule.ThemeRef, bool) {
	return find(c.ColorThemes(), id)
}

// IconTheme looks up an icon theme by id.
func (c *Catalog) IconTheme(id string) (schedule.ThemeRef, bool) {
	return find(c.IconThemes(), id)
}

// Search fuzzy-matches query against the ids and labels of one kind of
// theme, best match first. An empty query returns everything.
func (c *Catalog) Search(kind, query string) []schedule.ThemeRef {
	refs := c.ColorThemes()
	if kind == KindIconTheme {
		refs = c.IconThemes()
	}
	if query == "" {
		return refs
	}
	matches := fuzzy.FindFrom(query, refSource(refs))
	out := make([]schedule.ThemeRef, 0, len(matches))
	for _, m := range matches {
		out = append(out, refs[m.Index])
	}
	return out
}

type refSource []schedule.ThemeRef

func (r refSource) String(i int) string { return r[i].ID + " " + r[i].Label }
func (r refSource) Len() int            { return len(r) }

func merge(builtin []schedule.ThemeRef, extra []config.ThemeEntry) []schedule.ThemeRef {
	byID := make(map[string]schedule.ThemeRef, len(builtin)+len(extra))
	for _, ref := range builtin {
		byID[ref.ID] = ref
	}
	for _, e := range extra {
		byID[e.ID] = schedule.ThemeRef{ID: e.ID, Label: e.Label}
	}
	out := make([]schedule.ThemeRef, 0, len(byID))
	for _, ref := range byID {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func find(refs []schedule.ThemeRef, id string) (schedule.ThemeRef, bool) {
	for _, ref := range refs {
		if ref.ID == id {
			return ref, true
		}
	}
	return schedule.ThemeRef{}, false
}
