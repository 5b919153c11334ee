package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/app"
	"github.com/themeswitch/themeswitch/internal/daemon"
)

var (
	runWatchUI     bool
	runWatchConfig bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler until interrupted",
	Long: `Run registers the configured mappings and applies the entry in effect
every scheduler.interval_seconds. With --watch-ui a live status view is shown;
with --watch the mappings are reloaded whenever the config file changes.`,
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

		runner, err := daemon.New(daemon.Options{
			Config:     e.cfg,
			ConfigPath: e.cfgPath,
			Store:      svc,
			Logger:     e.logger,
			Watch:      runWatchConfig,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e.logger.Info("starting themeswitch", slog.String("config", e.cfgPath))
		if !runWatchUI {
			fmt.Fprintln(cmd.ErrOrStderr(), "themeswitch running; press Ctrl+C to stop")
			return runner.Run(ctx)
		}
		return runWithUI(ctx, e, svc, runner)
	},
}

func runWithUI(ctx context.Context, e *env, svc app.SelectionReader, runner *daemon.Runner) error {
	// Subscribe before Run so the view sees the registration events.
	events, unsubscribe := runner.Bus().Subscribe(0)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	model := app.New(app.Options{
		Registry:     runner.Registry(),
		Store:        svc,
		Events:       events,
		NoColor:      os.Getenv("NO_COLOR") != "" || e.cfg.UI.NoColor,
		EventHistory: e.cfg.UI.EventHistory,
		Now:          runner.Now,
	})
	_, uiErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	interrupted := ctx.Err() != nil

	cancel()
	runErr := <-done
	if uiErr != nil && !interrupted {
		e.logger.Error("run tui", slog.Any("err", uiErr))
		return fmt.Errorf("tui: %w", uiErr)
	}
	return runErr
}

func init() {
	runCmd.Flags().BoolVar(&runWatchUI, "watch-ui", false, "show the live status view")
	runCmd.Flags().BoolVar(&runWatchConfig, "watch", false, "reload mappings when the config file changes")
	rootCmd.AddCommand(runCmd)
}
