package themes

import "github.com/charmbracelet/lipgloss"

// palette lists one color per style slot.
type palette struct {
	accent, dim, text, title, err, success, warn, border, highlight string
}

func (p palette) theme(id, label string, dark bool) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		ID:        id,
		Label:     label,
		Dark:      dark,
		Accent:    fg(p.accent).Bold(true),
		Dim:       fg(p.dim),
		Text:      fg(p.text),
		Title:     fg(p.title).Bold(true),
		Error:     fg(p.err).Bold(true),
		Success:   fg(p.success).Bold(true),
		Warning:   fg(p.warn).Bold(true),
		Border:    fg(p.border),
		Highlight: fg(p.highlight).Bold(true),
	}
}

func init() {
	builtins := []struct {
		id, label string
		dark      bool
		p         palette
	}{
		{"rainbow", "Rainbow", true, palette{"#FF6FF7", "#6C6F93", "#E6E6FA", "#8EEBFF", "#FF5F56", "#5CFF5C", "#FFD166", "#7C7CFF", "#FFA7C4"}},
		{"mono", "Monochrome", true, palette{"#FFFFFF", "#666666", "#CCCCCC", "#FFFFFF", "#FFFFFF", "#CCCCCC", "#AAAAAA", "#888888", "#FFFFFF"}},
		{"nord", "Nord", true, palette{"#88C0D0", "#4C566A", "#D8DEE9", "#81A1C1", "#BF616A", "#A3BE8C", "#EBCB8B", "#4C566A", "#ECEFF4"}},
		{"dracula", "Dracula", true, palette{"#FF79C6", "#6272A4", "#F8F8F2", "#BD93F9", "#FF5555", "#50FA7B", "#FFB86C", "#6272A4", "#8BE9FD"}},
		{"gruvbox", "Gruvbox Dark", true, palette{"#FE8019", "#928374", "#EBDBB2", "#FABD2F", "#FB4934", "#B8BB26", "#FE8019", "#928374", "#8EC07C"}},
		{"gruvbox-light", "Gruvbox Light", false, palette{"#AF3A03", "#7C6F64", "#3C3836", "#B57614", "#9D0006", "#79740E", "#AF3A03", "#A89984", "#427B58"}},
		{"solarized", "Solarized Dark", true, palette{"#268BD2", "#586E75", "#839496", "#2AA198", "#DC322F", "#859900", "#CB4B16", "#586E75", "#B58900"}},
		{"solarized-light", "Solarized Light", false, palette{"#268BD2", "#93A1A1", "#657B83", "#2AA198", "#DC322F", "#859900", "#CB4B16", "#93A1A1", "#B58900"}},
		{"sunset", "Sunset", true, palette{"#FFD700", "#4B0082", "#FF8C00", "#FFD700", "#FF6347", "#FFD700", "#FF8C00", "#9400D3", "#FF00FF"}},
		{"synthwave", "Synthwave", true, palette{"#FF1493", "#4A0080", "#00D4FF", "#FF1493", "#FF0000", "#00D4FF", "#FFE900", "#9D00FF", "#FFE900"}},
		{"ocean", "Ocean", true, palette{"#00CED1", "#000080", "#20B2AA", "#00CED1", "#FF7F50", "#20B2AA", "#F4A460", "#008B8B", "#00CED1"}},
		{"forest", "Forest", true, palette{"#228B22", "#3D2314", "#8FBC8F", "#228B22", "#CD5C5C", "#8FBC8F", "#DAA520", "#8B4513", "#FFFDD0"}},
		{"coffee", "Coffee", true, palette{"#FFFDD0", "#3C2415", "#C4A484", "#FFFDD0", "#CD5C5C", "#FFD59A", "#FFD59A", "#7B3F00", "#FFFDD0"}},
		{"paper", "Paper", false, palette{"#005F87", "#8A8A8A", "#1C1C1C", "#005F87", "#AF0000", "#008700", "#AF5F00", "#BCBCBC", "#5F00AF"}},
	}
	for _, b := range builtins {
		Register(b.p.theme(b.id, b.label, b.dark))
	}

	// NO_COLOR: attributes only.
	reset := lipgloss.NewStyle()
	Register(Theme{
		ID:        "nocolor",
		Label:     "No Color",
		Dark:      true,
		Accent:    reset.Bold(true),
		Dim:       reset,
		Text:      reset,
		Title:     reset.Bold(true),
		Error:     reset.Bold(true),
		Success:   reset.Bold(true),
		Warning:   reset.Bold(true),
		Border:    reset,
		Highlight: reset.Reverse(true),
	})
}
