package notify

import (
	"context"
	"log/slog"
)

// Log writes notices to a structured logger.
type Log struct {
	logger  *slog.Logger
	enabled bool
}

func NewLog(logger *slog.Logger, enabled bool) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, enabled: enabled}
}

func (l *Log) ID() string      { return "log" }
func (l *Log) Name() string    { return "Log" }
func (l *Log) IsEnabled() bool { return l.enabled }

func (l *Log) Notify(ctx context.Context, n Notice) error {
	level := slog.LevelInfo
	if n.Severity == SeverityError {
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, n.Title,
		slog.String("type", string(n.Type)),
		slog.String("body", n.Body),
		slog.Time("at", n.At))
	return nil
}
