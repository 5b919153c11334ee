package logging

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupWritesToStateDir(t *testing.T) {
	dir := t.TempDir()
	logger, f, err := Setup(Options{Level: "debug", Dir: dir})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	logger.Debug("scheduler started", slog.String("interval", "5s"))
	f.Close()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "scheduler started") {
		t.Errorf("log file missing record: %q", data)
	}
	if !strings.HasPrefix(f.Name(), dir) {
		t.Errorf("log file %q not under %q", f.Name(), dir)
	}
}
