package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schedule, the entry in effect and the live selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, closeState, err := e.openService()
		if err != nil {
			return err
		}
		defer closeState()

		reg, errs := registerMappings(e.cfg, svc.Catalog())
		sel, err := svc.Current(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		heading := headingStyle(sel.Theme, e.cfg.UI.NoColor || os.Getenv("NO_COLOR") != "")
		now := e.now()
		entries := reg.Entries()

		fmt.Fprintf(out, "Now: %s\n", schedule.ClockOf(now))
		if current, ok := schedule.Resolve(entries, now); ok {
			fmt.Fprintf(out, "In effect: %s\n", describe(current))
			if next, at, ok := schedule.Next(entries, now); ok {
				fmt.Fprintf(out, "Next: %s (in %s)\n", describe(next), until(now, at))
			}
		} else {
			fmt.Fprintln(out, "In effect: none (no valid mappings)")
		}
		fmt.Fprintf(out, "Live: theme=%s icon_theme=%s\n", orDash(sel.Theme), orDash(sel.IconTheme))

		fmt.Fprintln(out)
		fmt.Fprintln(out, heading.Render("Schedule"))
		for i := len(entries) - 1; i >= 0; i-- {
			en := entries[i]
			fmt.Fprintf(out, "  %s  %-20s %s\n", en.At, refID(en.Theme), refID(en.IconTheme))
		}
		for _, err := range errs {
			fmt.Fprintf(out, "  skipped: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
