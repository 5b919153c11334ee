package cmd

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/notify"
)

var errDoctorFailed = errors.New("doctor found problems")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, state and hooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "themeswitch doctor")

		e, err := loadEnv(false)
		if err != nil {
			fmt.Fprintf(out, "Config: ERROR - %v\n", err)
			return errDoctorFailed
		}
		defer e.Close()
		fmt.Fprintf(out, "Config: OK (%s)\n", e.cfgPath)

		problems := 0

		svc, closeState, err := e.openService()
		if err != nil {
			fmt.Fprintf(out, "State: ERROR - %v\n", err)
			return errDoctorFailed
		}
		defer closeState()
		if _, err := svc.Current(cmd.Context()); err != nil {
			fmt.Fprintf(out, "State: ERROR - %v\n", err)
			problems++
		} else {
			fmt.Fprintln(out, "State: OK")
		}

		catalog := svc.Catalog()
		reg, errs := registerMappings(e.cfg, catalog)
		fmt.Fprintf(out, "Mappings: %d registered, %d rejected\n", reg.Len(), len(errs))
		for _, err := range errs {
			fmt.Fprintf(out, "  %v\n", err)
			problems++
		}
		for _, m := range e.cfg.Mappings {
			if _, ok := catalog.ColorTheme(m.Theme); m.Theme != "" && !ok {
				fmt.Fprintf(out, "  %s: color theme %q is not installed\n", m.Time, m.Theme)
				problems++
			}
			if _, ok := catalog.IconTheme(m.IconTheme); m.IconTheme != "" && !ok {
				fmt.Fprintf(out, "  %s: icon theme %q is not installed\n", m.Time, m.IconTheme)
				problems++
			}
		}

		for _, hook := range []struct{ name, line string }{
			{"theme", e.cfg.Hooks.Theme},
			{"icon_theme", e.cfg.Hooks.IconTheme},
		} {
			if strings.TrimSpace(hook.line) == "" {
				continue
			}
			bin := strings.Fields(hook.line)[0]
			if path, err := exec.LookPath(bin); err != nil {
				fmt.Fprintf(out, "Hook %s (%s): NOT FOUND\n", hook.name, bin)
				problems++
			} else {
				fmt.Fprintf(out, "Hook %s: OK (%s)\n", hook.name, path)
			}
		}

		mgr := notify.NewFromConfig(e.cfg.Notify, e.logger)
		fmt.Fprintf(out, "Notifiers: %d enabled\n", mgr.EnabledCount())
		if e.cfg.Notify.Desktop && !notify.NewDesktop(true).IsEnabled() {
			fmt.Fprintf(out, "  desktop notifications unavailable on %s\n", runtime.GOOS)
		}

		if problems > 0 {
			fmt.Fprintf(out, "%d problem(s) found\n", problems)
			return errDoctorFailed
		}
		e.logger.Info("doctor complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
