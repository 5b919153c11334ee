package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

// paletteRows is how many commands the palette lists at once.
const paletteRows = 8

// paletteItem is a listed command and the byte offsets of its name that the
// query matched.
type paletteItem struct {
	cmd  *Command
	hits []int
}

// PaletteState is the command palette: a one-line query and the commands it
// matches. Preview commands show a swatch of their theme when highlighted.
type PaletteState struct {
	registry *CommandRegistry
	query    []rune
	pos      int
	items    []paletteItem
	selected int
}

// NewPaletteState creates a palette listing every command in registry.
func NewPaletteState(registry *CommandRegistry) *PaletteState {
	p := &PaletteState{registry: registry}
	p.Reset()
	return p
}

// Reset clears the query and lists every command again.
func (p *PaletteState) Reset() {
	p.query, p.pos = nil, 0
	p.filter()
}

// SetInput replaces the query and moves the cursor to its end.
func (p *PaletteState) SetInput(input string) {
	p.query = []rune(input)
	p.pos = len(p.query)
	p.filter()
}

// Input returns the query.
func (p *PaletteState) Input() string {
	return string(p.query)
}

// InsertChar inserts ch at the cursor.
func (p *PaletteState) InsertChar(ch rune) {
	p.query = slices.Insert(p.query, p.pos, ch)
	p.pos++
	p.filter()
}

// Backspace removes the rune before the cursor.
func (p *PaletteState) Backspace() {
	if p.pos == 0 {
		return
	}
	p.query = slices.Delete(p.query, p.pos-1, p.pos)
	p.pos--
	p.filter()
}

// Delete removes the rune under the cursor.
func (p *PaletteState) Delete() {
	if p.pos == len(p.query) {
		return
	}
	p.query = slices.Delete(p.query, p.pos, p.pos+1)
	p.filter()
}

func (p *PaletteState) CursorLeft()  { p.pos = max(p.pos-1, 0) }
func (p *PaletteState) CursorRight() { p.pos = min(p.pos+1, len(p.query)) }
func (p *PaletteState) SelectUp()    { p.selected = max(p.selected-1, 0) }
func (p *PaletteState) SelectDown()  { p.selected = max(min(p.selected+1, len(p.items)-1), 0) }

// SelectedCommand returns the highlighted command, or nil when nothing matches.
func (p *PaletteState) SelectedCommand() *Command {
	if p.selected < len(p.items) {
		return p.items[p.selected].cmd
	}
	return nil
}

// filter lists every command in registration order for an empty query and the
// fuzzy matches in rank order otherwise.
func (p *PaletteState) filter() {
	p.selected = 0
	p.items = p.items[:0]
	cmds := p.registry.commands
	if len(p.query) == 0 {
		for i := range cmds {
			p.items = append(p.items, paletteItem{cmd: &cmds[i]})
		}
		return
	}
	for _, match := range fuzzy.Find(string(p.query), p.registry.SearchableNames()) {
		p.items = append(p.items, paletteItem{cmd: &cmds[match.Index], hits: match.MatchedIndexes})
	}
}

// Render draws the palette centered in the window.
func (p *PaletteState) Render(m *Model) string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Command Palette"))
	b.WriteString("\n")
	b.WriteString(t.Accent.Render("› ") + t.Text.Render(string(p.query[:p.pos])) +
		t.Highlight.Render("▏") + t.Text.Render(string(p.query[p.pos:])))
	b.WriteString("\n\n")

	if len(p.items) == 0 {
		b.WriteString(t.Dim.Render("No matching commands") + "\n")
	}
	first := max(0, p.selected-paletteRows+1)
	last := min(first+paletteRows, len(p.items))
	for i := first; i < last; i++ {
		b.WriteString(p.renderItem(m, p.items[i], i == p.selected) + "\n")
	}
	if hidden := len(p.items) - last; hidden > 0 {
		b.WriteString(t.Dim.Render(fmt.Sprintf("  … %d more", hidden)) + "\n")
	}

	if cmd := p.SelectedCommand(); cmd != nil {
		b.WriteString("\n" + t.Dim.Render(cmd.Description) + "\n")
		if cmd.Theme != "" {
			b.WriteString(swatch(cmd.Theme, m.noColor) + "\n")
		}
	}
	b.WriteString("\n" + t.Dim.Render("enter run · esc close · previews leave the live theme alone"))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (p *PaletteState) renderItem(m *Model, it paletteItem, selected bool) string {
	t := m.theme
	marker := "  "
	if selected {
		marker = t.Highlight.Render("▸ ")
	}
	line := marker + markHits(it.cmd.Name, it.hits, t.Accent)
	if it.cmd.Keybinding != "" {
		line += " " + t.Dim.Render(it.cmd.Keybinding)
	}
	if it.cmd.Theme != "" && it.cmd.Theme == m.previewID {
		line += " " + t.Success.Render("(previewing)")
	}
	return line
}

// swatch renders a sample line in the styles of theme id.
func swatch(id string, noColor bool) string {
	th := themes.Get(id, noColor)
	chips := th.Accent.Render("■") + th.Success.Render("■") + th.Warning.Render("■") + th.Error.Render("■")
	return th.Title.Render(id) + " " + chips + " " + th.Text.Render("07:00") + th.Dim.Render(" → ") + th.Text.Render("19:00")
}

// markHits styles the runs of s that start at the matched byte offsets.
func markHits(s string, hits []int, style lipgloss.Style) string {
	if len(hits) == 0 {
		return s
	}
	var out strings.Builder
	run := strings.Builder{}
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(style.Render(run.String()))
			run.Reset()
		}
	}
	next := 0
	for i, ch := range s {
		if next < len(hits) && hits[next] == i {
			run.WriteRune(ch)
			next++
			continue
		}
		flush()
		out.WriteRune(ch)
	}
	flush()
	return out.String()
}
