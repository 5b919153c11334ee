package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// Desktop shows notices through the platform notification tool:
// notify-send on Linux and BSD, osascript on macOS.
type Desktop struct {
	id      string
	enabled bool
	tool    string
	timeout time.Duration
}

// NewDesktop creates a desktop notifier. It is disabled when enabled is false
// or when the platform tool is not installed.
func NewDesktop(enabled bool) *Desktop {
	d := &Desktop{id: "desktop", timeout: 5 * time.Second}
	if !enabled {
		return d
	}
	tool := desktopTool()
	if tool == "" {
		return d
	}
	if _, err := lookPath(tool); err != nil {
		return d
	}
	d.tool = tool
	d.enabled = true
	return d
}

func (d *Desktop) ID() string      { return d.id }
func (d *Desktop) Name() string    { return "Desktop" }
func (d *Desktop) IsEnabled() bool { return d.enabled }

func (d *Desktop) Notify(ctx context.Context, n Notice) error {
	if !d.enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	args := desktopArgs(d.tool, n)
	out, err := execCommand(ctx, d.tool, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", d.tool, err, out)
	}
	return nil
}

func desktopTool() string {
	switch runtime.GOOS {
	case "darwin":
		return "osascript"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send"
	}
	return ""
}

func desktopArgs(tool string, n Notice) []string {
	if tool == "osascript" {
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(n.Body), strconv.Quote(n.Title))
		return []string{"-e", script}
	}
	urgency := "low"
	if n.Severity == SeverityError {
		urgency = "critical"
	}
	return []string{"--app-name=themeswitch", "--urgency=" + urgency, n.Title, n.Body}
}

// Test seams.
var (
	execCommand = exec.CommandContext
	lookPath    = exec.LookPath
)
