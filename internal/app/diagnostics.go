package app

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

// DiagnosticsState holds counters for the debug overlay.
type DiagnosticsState struct {
	// Event counters
	Registered int
	Cleared    int
	Applied    int
	Errors     int

	LastError   string
	LastErrorAt time.Time
	LastApplyAt time.Time

	// App stats
	StartTime      time.Time
	LastUpdate     time.Time
	MemoryUsage    uint64
	GoroutineCount int
}

// NewDiagnosticsState creates a new diagnostics state.
func NewDiagnosticsState() *DiagnosticsState {
	return &DiagnosticsState{StartTime: time.Now()}
}

// RecordEvent counts a scheduler event.
func (d *DiagnosticsState) RecordEvent(e schedule.Event) {
	switch e.Type {
	case schedule.EventThemeRegistered:
		d.Registered++
	case schedule.EventCleared:
		d.Cleared++
	case schedule.EventThemeApplied, schedule.EventIconThemeApplied:
		d.Applied++
		d.LastApplyAt = e.At
	case schedule.EventError:
		d.Errors++
		if e.Err != nil {
			d.LastError = e.Err.Error()
		}
		d.LastErrorAt = e.At
	}
}

// Update refreshes runtime stats.
func (d *DiagnosticsState) Update() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	d.MemoryUsage = m.Alloc
	d.GoroutineCount = runtime.NumGoroutine()
	d.LastUpdate = time.Now()
}

// Uptime returns the application uptime.
func (d *DiagnosticsState) Uptime() time.Duration {
	return time.Since(d.StartTime)
}

// Render renders the diagnostics overlay.
func (d *DiagnosticsState) Render(m *Model) string {
	d.Update()

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(" ═══ Diagnostics ═══ "))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Dim.Render("Uptime: "))
	b.WriteString(m.theme.Text.Render(d.Uptime().Round(time.Second).String()))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Accent.Render("Runtime"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Memory: %s\n", formatBytes(d.MemoryUsage)))
	b.WriteString(fmt.Sprintf("  Goroutines: %d\n", d.GoroutineCount))
	b.WriteString("\n")

	b.WriteString(m.theme.Accent.Render("Scheduler"))
	b.WriteString("\n")
	if m.streamClosed {
		b.WriteString(m.theme.Error.Render("  ○ Stopped"))
	} else {
		b.WriteString(m.theme.Success.Render("  ● Running"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Mappings: %d\n", len(m.entries)))
	b.WriteString(fmt.Sprintf("  Registered: %d  Cleared: %d\n", d.Registered, d.Cleared))
	b.WriteString(fmt.Sprintf("  Applied: %d  Errors: %d\n", d.Applied, d.Errors))
	if !d.LastApplyAt.IsZero() {
		b.WriteString(fmt.Sprintf("  Last apply: %s\n", d.LastApplyAt.Format("15:04:05")))
	}
	if d.LastError != "" && time.Since(d.LastErrorAt) < 5*time.Minute {
		b.WriteString(m.theme.Error.Render(fmt.Sprintf("  Last error: %s", d.LastError)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Dim.Render("Press Ctrl+D to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(44).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Top, box)
}

// formatBytes formats bytes as human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
