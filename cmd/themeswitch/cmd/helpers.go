package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/settings"
	"github.com/themeswitch/themeswitch/internal/ui/themes"
)

// registerMappings fills a registry from cfg and returns the validation
// errors reported for skipped entries.
func registerMappings(cfg *config.Config, catalog schedule.Catalog) (*schedule.Registry, []error) {
	bus := schedule.NewBus()
	events, cancel := bus.Subscribe(0)
	defer cancel()

	reg := schedule.NewRegistry(catalog, bus, nil)
	reg.Register(cfg.ScheduleMappings()...)
	bus.Close()

	var errs []error
	for e := range events {
		if e.Type == schedule.EventError && e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return reg, errs
}

func describe(e schedule.Entry) string {
	parts := []string{e.At.String()}
	if e.Theme != nil {
		parts = append(parts, e.Theme.Name())
	}
	if e.IconTheme != nil {
		parts = append(parts, e.IconTheme.Name())
	}
	return strings.Join(parts, "  ")
}

func refID(r *schedule.ThemeRef) string {
	if r == nil {
		return "-"
	}
	return r.ID
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// suggest returns a hint naming the closest installed themes.
func suggest(catalog *settings.Catalog, kind, id string) string {
	matches := catalog.Search(kind, id)
	if len(matches) == 0 {
		return ""
	}
	names := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		names = append(names, m.ID)
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(names, ", "))
}

// headingStyle renders section headings with the live color theme.
func headingStyle(themeID string, noColor bool) lipgloss.Style {
	return themes.Get(themeID, noColor).Title
}

func until(now, at time.Time) string {
	d := at.Sub(now).Round(time.Minute)
	h := int(d.Hours())
	return fmt.Sprintf("%dh%02dm", h, int(d.Minutes())%60)
}
