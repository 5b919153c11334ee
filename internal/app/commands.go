package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

// Command represents an action that can be invoked via the command palette.
type Command struct {
	ID          string
	Name        string
	Description string
	Category    string
	Keybinding  string
	// Theme is the color theme a preview command shows.
	Theme       string
	Handler     func(m *Model) (Model, tea.Cmd)
}

// CommandRegistry holds all available commands.
type CommandRegistry struct {
	commands []Command
}

// NewCommandRegistry creates a registry with the view commands and one
// preview command per installed color theme. Previews only restyle the view;
// they never change the live selection.
func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}

	r.register(Command{
		ID:          "view.refresh",
		Name:        "Refresh",
		Description: "Reload the schedule and live selection",
		Category:    "View",
		Keybinding:  "r",
		Handler: func(m *Model) (Model, tea.Cmd) {
			m.refreshEntries()
			return *m, m.loadSelectionCmd()
		},
	})
	r.register(Command{
		ID:          "view.diagnostics",
		Name:        "Toggle Diagnostics",
		Description: "Show event counters and runtime stats",
		Category:    "View",
		Keybinding:  "ctrl+d",
		Handler: func(m *Model) (Model, tea.Cmd) {
			m.diagOpen = !m.diagOpen
			return *m, nil
		},
	})
	r.register(Command{
		ID:          "view.help",
		Name:        "Toggle Help",
		Description: "Show key bindings",
		Category:    "View",
		Keybinding:  "?",
		Handler: func(m *Model) (Model, tea.Cmd) {
			m.showHelp = !m.showHelp
			return *m, nil
		},
	})
	r.register(Command{
		ID:          "preview.reset",
		Name:        "Preview: Live Theme",
		Description: "Style the view with the live selection again",
		Category:    "Preview",
		Handler: func(m *Model) (Model, tea.Cmd) {
			m.previewID = ""
			m.applyStyle()
			return *m, nil
		},
	})
	for _, ref := range themes.Catalog() {
		id := ref.ID
		r.register(Command{
			ID:          "preview." + id,
			Name:        "Preview: " + ref.Name(),
			Description: "Style the view with " + ref.Name(),
			Category:    "Preview",
			Theme:       id,
			Handler: func(m *Model) (Model, tea.Cmd) {
				m.previewID = id
				m.applyStyle()
				return *m, nil
			},
		})
	}
	r.register(Command{
		ID:          "app.quit",
		Name:        "Quit",
		Description: "Exit the status view",
		Category:    "App",
		Keybinding:  "q",
		Handler: func(m *Model) (Model, tea.Cmd) {
			return *m, tea.Quit
		},
	})

	return r
}

func (r *CommandRegistry) register(cmd Command) {
	r.commands = append(r.commands, cmd)
}

// Commands returns all registered commands.
func (r *CommandRegistry) Commands() []Command {
	return r.commands
}

// SearchableNames returns command names for fuzzy matching.
func (r *CommandRegistry) SearchableNames() []string {
	names := make([]string, len(r.commands))
	for i, cmd := range r.commands {
		names[i] = cmd.Name
	}
	return names
}

// Get returns a command by id.
func (r *CommandRegistry) Get(id string) *Command {
	for i := range r.commands {
		if r.commands[i].ID == id {
			return &r.commands[i]
		}
	}
	return nil
}
