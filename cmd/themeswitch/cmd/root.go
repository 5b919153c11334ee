// Package cmd implements the CLI commands for themeswitch.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/logging"
	"github.com/themeswitch/themeswitch/internal/settings"
)

var (
	cfgFile   string
	logLevel  string
	logStderr bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "themeswitch",
	Short: "Switch color and icon themes by time of day",
	Long: `themeswitch applies a color theme and an icon theme according to a
daily schedule of time-of-day mappings. The most recent mapping at or before
the current time wins; before the first mapping of the day, the last one from
the previous day stays in effect.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the user config dir/themeswitch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides logging.level")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "mirror log output to stderr")
}

// env is what most commands need: configuration, a logger and the log file.
type env struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	logFile *os.File
}

// loadEnv reads the config and opens the log. With allowMissing, a missing
// config file yields the default configuration at the resolved path.
func loadEnv(allowMissing bool) (*env, error) {
	cfg, path, err := config.Load(cfgFile)
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, f, err := logging.Setup(logging.Options{Level: level, Dir: cfg.Logging.Dir, Stderr: logStderr})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return &env{cfg: cfg, cfgPath: path, logger: logger, logFile: f}, nil
}

// now reads the wall clock in the configured scheduler timezone.
func (e *env) now() time.Time {
	return time.Now().In(e.cfg.Location())
}

func (e *env) Close() {
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// openService opens the state database and wires the settings service.
func (e *env) openService() (*settings.Service, func(), error) {
	state, err := settings.NewStateStore(e.cfg.State.Path)
	if err != nil {
		return nil, nil, err
	}
	hooks := settings.NewHookRunner(e.cfg.Hooks.Theme, e.cfg.Hooks.IconTheme, e.cfg.HookTimeout(), e.logger)
	svc := settings.NewService(state, hooks, settings.NewCatalog(e.cfg.Themes), e.logger)
	return svc, func() { state.Close() }, nil
}
