package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/schedule"
)

// Notifier is the interface implemented by all notification backends.
type Notifier interface {
	// ID returns a unique identifier for this notifier instance.
	ID() string
	// Name returns a human-readable name for the notifier.
	Name() string
	// IsEnabled returns true if this notifier is configured and ready.
	IsEnabled() bool
	// Notify delivers a single notice.
	Notify(ctx context.Context, n Notice) error
}

// Manager coordinates multiple notifiers, fanning out notices to all enabled backends.
type Manager struct {
	mu        sync.RWMutex
	notifiers []Notifier
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewManager creates a new notifier manager.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Register adds a notifier to the manager.
func (m *Manager) Register(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// Notifiers returns all registered notifiers.
func (m *Manager) Notifiers() []Notifier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Notifier, len(m.notifiers))
	copy(result, m.notifiers)
	return result
}

// EnabledCount returns the number of enabled notifiers.
func (m *Manager) EnabledCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifiers {
		if n.IsEnabled() {
			count++
		}
	}
	return count
}

// Notify sends notice to all enabled notifiers. Delivery is asynchronous and
// failures are logged, never returned.
func (m *Manager) Notify(ctx context.Context, notice Notice) {
	for _, n := range m.Notifiers() {
		if !n.IsEnabled() {
			continue
		}
		m.wg.Add(1)
		go func(n Notifier) {
			defer m.wg.Done()
			if err := n.Notify(ctx, notice); err != nil {
				m.logger.Warn("notification failed",
					slog.String("notifier", n.ID()),
					slog.String("type", string(notice.Type)),
					slog.Any("err", err))
			}
		}(n)
	}
}

// Pump converts events into notices until events is closed or ctx is done.
// In-flight deliveries are awaited before it returns.
func (m *Manager) Pump(ctx context.Context, events <-chan schedule.Event) error {
	defer m.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if notice, ok := NoticeFor(e); ok {
				m.Notify(ctx, notice)
			}
		}
	}
}

// Wait blocks until all in-flight notifications complete or the context is canceled.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewFromConfig builds a manager with the backends enabled in cfg.
func NewFromConfig(cfg config.NotifyConfig, logger *slog.Logger) *Manager {
	m := NewManager(logger)
	m.Register(NewLog(m.logger, cfg.Log))
	m.Register(NewDesktop(cfg.Desktop))
	for _, w := range cfg.Webhooks {
		m.Register(NewWebhook(w.ID, WebhookConfig{
			URL:     w.URL,
			Headers: w.Headers,
			Timeout: time.Duration(w.TimeoutMs) * time.Millisecond,
			Enabled: w.Enabled,
		}))
	}
	return m
}
