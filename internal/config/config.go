package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

// CurrentVersion is written by Save and accepted by Load.
const CurrentVersion = 1

// Config holds themeswitch configuration loaded from TOML.
type Config struct {
	ConfigVersion int             `toml:"config_version"`
	Scheduler     SchedulerConfig `toml:"scheduler"`
	Mappings      []MappingEntry  `toml:"mappings"`
	Themes        ThemesConfig    `toml:"themes"`
	Hooks         HooksConfig     `toml:"hooks"`
	Notify        NotifyConfig    `toml:"notify"`
	UI            UIConfig        `toml:"ui"`
	State         StateConfig     `toml:"state"`
	Logging       LoggingConfig   `toml:"logging"`
}

// SchedulerConfig controls the tick loop.
type SchedulerConfig struct {
	IntervalSeconds int  `toml:"interval_seconds"`
	WatchConfig     bool `toml:"watch_config"`
	// Timezone is an IANA name such as "Europe/Berlin". Mapping times are
	// read in this zone; empty means the system zone.
	Timezone string `toml:"timezone,omitempty"`
}

// MappingEntry is one persisted time-of-day mapping.
type MappingEntry struct {
	Time      string `toml:"time"`
	Theme     string `toml:"theme"`
	IconTheme string `toml:"icon_theme,omitempty"`
}

// ThemeEntry declares an externally installed theme so it can be scheduled.
type ThemeEntry struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
}

// ThemesConfig lists themes beyond the built-in ones.
type ThemesConfig struct {
	ExtraColor []ThemeEntry `toml:"extra_color"`
	ExtraIcon  []ThemeEntry `toml:"extra_icon"`
}

// HooksConfig holds shell commands run after a theme is applied. The theme id
// is exported as THEMESWITCH_ID; "{id}" in a command expands to it, quoted.
type HooksConfig struct {
	Theme          string `toml:"theme"`
	IconTheme      string `toml:"icon_theme"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NotifyConfig holds notification sink settings.
type NotifyConfig struct {
	Desktop  bool           `toml:"desktop"`
	Log      bool           `toml:"log"`
	Webhooks []WebhookEntry `toml:"webhooks"`
}

// WebhookEntry is an HTTP endpoint that receives applied events.
type WebhookEntry struct {
	ID        string            `toml:"id"`
	URL       string            `toml:"url"`
	Enabled   bool              `toml:"enabled"`
	Headers   map[string]string `toml:"headers"`
	TimeoutMs int               `toml:"timeout_ms"`
}

type UIConfig struct {
	NoColor      bool `toml:"no_color"`
	EventHistory int  `toml:"event_history"`
}

// StateConfig locates the selection database.
type StateConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
}

// Load reads configuration from disk. If path is empty, a default OS-specific
// location is used.
func Load(path string) (*Config, string, error) {
	cfgPath := path
	if cfgPath == "" {
		var err error
		cfgPath, err = DefaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, cfgPath, err
	}

	return &cfg, cfgPath, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = CurrentVersion
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// DefaultPath returns the OS-specific config file location, creating its
// directory if needed.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	name := "themeswitch"
	if runtime.GOOS == "windows" {
		name = "ThemeSwitch"
	}
	base := filepath.Join(dir, name)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(base, "config.toml"), nil
}

// Default returns a starter configuration with a day and a night mapping.
func Default() *Config {
	cfg := &Config{
		ConfigVersion: CurrentVersion,
		Mappings: []MappingEntry{
			{Time: "07:00", Theme: "solarized-light", IconTheme: "unicode"},
			{Time: "19:00", Theme: "nord", IconTheme: "unicode"},
		},
		Notify: NotifyConfig{Log: true},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = CurrentVersion
	}
	if cfg.Scheduler.IntervalSeconds == 0 {
		cfg.Scheduler.IntervalSeconds = int(schedule.DefaultInterval / time.Second)
	}
	if cfg.Hooks.TimeoutSeconds == 0 {
		cfg.Hooks.TimeoutSeconds = 10
	}
	if cfg.UI.EventHistory == 0 {
		cfg.UI.EventHistory = 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	for i := range cfg.Notify.Webhooks {
		if cfg.Notify.Webhooks[i].TimeoutMs == 0 {
			cfg.Notify.Webhooks[i].TimeoutMs = 5000
		}
	}
}

// Validate performs semantic validation of config. Mapping times are not
// checked here: the schedule registry reports bad entries itself and keeps
// the valid ones.
func Validate(cfg Config) error {
	if cfg.ConfigVersion > CurrentVersion {
		return fmt.Errorf("config_version %d is newer than supported (%d)", cfg.ConfigVersion, CurrentVersion)
	}
	if cfg.Scheduler.IntervalSeconds < 1 {
		return errors.New("scheduler.interval_seconds must be at least 1")
	}
	if cfg.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
			return fmt.Errorf("scheduler.timezone: %w", err)
		}
	}
	if cfg.Hooks.TimeoutSeconds < 0 {
		return errors.New("hooks.timeout_seconds must not be negative")
	}
	for _, t := range append(append([]ThemeEntry{}, cfg.Themes.ExtraColor...), cfg.Themes.ExtraIcon...) {
		if strings.TrimSpace(t.ID) == "" {
			return errors.New("themes: extra theme id is required")
		}
	}
	seen := map[string]bool{}
	for _, w := range cfg.Notify.Webhooks {
		if w.ID == "" {
			return errors.New("notify.webhooks: id is required")
		}
		if seen[w.ID] {
			return fmt.Errorf("notify.webhooks: duplicate id %q", w.ID)
		}
		seen[w.ID] = true
		if w.Enabled && !strings.HasPrefix(w.URL, "http://") && !strings.HasPrefix(w.URL, "https://") {
			return fmt.Errorf("notify.webhooks %s: url must be http(s)", w.ID)
		}
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}
	return nil
}

// Interval returns the scheduler tick cadence.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Scheduler.IntervalSeconds) * time.Second
}

// Location returns the zone mapping times are read in. An empty or unknown
// timezone yields time.Local.
func (c Config) Location() *time.Location {
	if c.Scheduler.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HookTimeout returns the maximum runtime of a hook command.
func (c Config) HookTimeout() time.Duration {
	return time.Duration(c.Hooks.TimeoutSeconds) * time.Second
}

// ScheduleMappings converts the persisted mappings for registration.
func (c Config) ScheduleMappings() []schedule.Mapping {
	out := make([]schedule.Mapping, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		out = append(out, schedule.Mapping{Time: m.Time, Theme: m.Theme, IconTheme: m.IconTheme})
	}
	return out
}
