package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/settings"
)

var (
	applyTheme     string
	applyIconTheme string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the scheduled entry now, or a theme by hand",
	Long: `Without flags, apply runs one scheduler tick: the entry in effect is
applied if it differs from the live selection. With --theme or --icon-theme the
given ids are applied directly and recorded as a manual change; the next
scheduler tick will switch back to the scheduled entry.`,
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

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		if applyTheme == "" && applyIconTheme == "" {
			reg, errs := registerMappings(e.cfg, svc.Catalog())
			for _, err := range errs {
				fmt.Fprintf(out, "skipped: %v\n", err)
			}

			bus := schedule.NewBus()
			events, cancel := bus.Subscribe(0)
			defer cancel()

			schedule.New(reg, svc, bus, schedule.WithClock(e.now), schedule.WithLogger(e.logger)).Tick(ctx)
			bus.Close()

			var failed error
			changed := 0
			for ev := range events {
				fmt.Fprintln(out, ev)
				switch ev.Type {
				case schedule.EventError:
					failed = ev.Err
				case schedule.EventThemeApplied, schedule.EventIconThemeApplied:
					changed++
				}
			}
			if failed != nil {
				return failed
			}
			if changed == 0 {
				fmt.Fprintln(out, "already up to date")
			}
			return nil
		}

		manual := svc.WithSource("manual")
		catalog := svc.Catalog()
		if applyTheme != "" {
			if _, ok := catalog.ColorTheme(applyTheme); !ok {
				return fmt.Errorf("unknown color theme %q%s", applyTheme, suggest(catalog, settings.KindTheme, applyTheme))
			}
			if err := manual.ApplyTheme(ctx, applyTheme); err != nil {
				return err
			}
			fmt.Fprintf(out, "theme set to %s\n", applyTheme)
		}
		if applyIconTheme != "" {
			if _, ok := catalog.IconTheme(applyIconTheme); !ok {
				return fmt.Errorf("unknown icon theme %q%s", applyIconTheme, suggest(catalog, settings.KindIconTheme, applyIconTheme))
			}
			if err := manual.ApplyIconTheme(ctx, applyIconTheme); err != nil {
				return err
			}
			fmt.Fprintf(out, "icon theme set to %s\n", applyIconTheme)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyTheme, "theme", "", "color theme id to apply")
	applyCmd.Flags().StringVar(&applyIconTheme, "icon-theme", "", "icon theme id to apply")
	rootCmd.AddCommand(applyCmd)
}
