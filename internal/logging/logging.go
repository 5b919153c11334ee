package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options controls where and how much is logged.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Dir overrides the state directory.
	Dir string
	// Stderr mirrors log records to standard error.
	Stderr bool
}

// Setup creates a slog.Logger that writes to a dated log file in the user
// state directory. The caller is responsible for closing the file.
func Setup(opts Options) (*slog.Logger, *os.File, error) {
	stateDir := opts.Dir
	if stateDir == "" {
		var err error
		stateDir, err = StateDir()
		if err != nil {
			return nil, nil, fmt.Errorf("state dir: %w", err)
		}
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create state dir: %w", err)
	}
	path := filepath.Join(stateDir, fmt.Sprintf("themeswitch-%s.log", time.Now().Format("20060102")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	var w io.Writer = f
	if opts.Stderr {
		w = io.MultiWriter(f, os.Stderr)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(handler), f, nil
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StateDir returns the path to the themeswitch state directory
// (~/.config/themeswitch/state).
func StateDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themeswitch", "state"), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
