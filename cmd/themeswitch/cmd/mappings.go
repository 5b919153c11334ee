package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/settings"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List or edit the time-of-day mappings",
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings in day order",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		reg, errs := registerMappings(e.cfg, settings.NewCatalog(e.cfg.Themes))
		out := cmd.OutOrStdout()
		entries := reg.Entries()
		for i := len(entries) - 1; i >= 0; i-- {
			fmt.Fprintln(out, describe(entries[i]))
		}
		for _, err := range errs {
			fmt.Fprintf(out, "skipped: %v\n", err)
		}
		return nil
	},
}

var mappingsAddCmd = &cobra.Command{
	Use:   "add TIME THEME [ICON_THEME]",
	Short: "Add a mapping and save the config",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		at, err := schedule.ParseClock(args[0])
		if err != nil {
			return &schedule.ValidationError{Time: args[0], Theme: args[1], Err: err}
		}
		entry := config.MappingEntry{Time: at.String(), Theme: args[1]}
		if len(args) == 3 {
			entry.IconTheme = args[2]
		}

		catalog := settings.NewCatalog(e.cfg.Themes)
		if _, ok := catalog.ColorTheme(entry.Theme); !ok {
			return fmt.Errorf("unknown color theme %q%s", entry.Theme, suggest(catalog, settings.KindTheme, entry.Theme))
		}
		if entry.IconTheme != "" {
			if _, ok := catalog.IconTheme(entry.IconTheme); !ok {
				return fmt.Errorf("unknown icon theme %q%s", entry.IconTheme, suggest(catalog, settings.KindIconTheme, entry.IconTheme))
			}
		}

		e.cfg.Mappings = append(e.cfg.Mappings, entry)
		if err := config.Save(e.cfgPath, e.cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", entry.Time, entry.Theme)
		return nil
	},
}

var mappingsRemoveCmd = &cobra.Command{
	Use:   "remove TIME",
	Short: "Remove every mapping at TIME and save the config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		at, err := schedule.ParseClock(args[0])
		if err != nil {
			return err
		}
		kept := e.cfg.Mappings[:0]
		removed := 0
		for _, m := range e.cfg.Mappings {
			if c, err := schedule.ParseClock(m.Time); err == nil && c == at {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		if removed == 0 {
			return fmt.Errorf("no mapping at %s", at)
		}
		e.cfg.Mappings = kept
		if err := config.Save(e.cfgPath, e.cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d mapping(s) at %s\n", removed, at)
		return nil
	},
}

func init() {
	mappingsCmd.AddCommand(mappingsListCmd, mappingsAddCmd, mappingsRemoveCmd)
	rootCmd.AddCommand(mappingsCmd)
}
