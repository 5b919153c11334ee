package settings

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// HookRunner runs the user command configured for a selection kind.
type HookRunner struct {
	commands map[string]string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewHookRunner creates a runner for the theme and icon theme command templates.
// Empty templates disable the hook for that kind.
func NewHookRunner(themeCmd, iconCmd string, timeout time.Duration, logger *slog.Logger) *HookRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HookRunner{
		commands: map[string]string{KindTheme: themeCmd, KindIconTheme: iconCmd},
		timeout:  timeout,
		logger:   logger,
	}
}

// Run executes the hook for kind. The id reaches the shell through the
// THEMESWITCH_ID environment variable, and "{id}" in the template expands to
// a quoted reference to it. A missing hook is not an error.
func (h *HookRunner) Run(ctx context.Context, kind, id string) error {
	if h == nil {
		return nil
	}
	tmpl := strings.TrimSpace(h.commands[kind])
	if tmpl == "" {
		return nil
	}
	line := strings.ReplaceAll(tmpl, "{id}", idRef())

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	name, args := shellCommand(line)
	cmd := execCommand(ctx, name, args...)
	cmd.Env = append(os.Environ(), "THEMESWITCH_ID="+id, "THEMESWITCH_KIND="+kind)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	h.logger.Debug("running hook", slog.String("kind", kind), slog.String("id", id), slog.String("command", line))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("hook %q: %w: %s", line, err, msg)
		}
		return fmt.Errorf("hook %q: %w", line, err)
	}
	h.logger.Debug("hook finished", slog.String("kind", kind), slog.Duration("took", time.Since(start)))
	return nil
}

func idRef() string {
	if runtime.GOOS == "windows" {
		return "%THEMESWITCH_ID%"
	}
	return `"$THEMESWITCH_ID"`
}

func shellCommand(line string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "sh", []string{"-c", line}
}

// execCommand is a test seam.
var execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
