package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the tick cadence used when none is configured.
const DefaultInterval = 5 * time.Second

// applyTimeout bounds the store calls made by a single tick.
const applyTimeout = 30 * time.Second

// Selection is the live theme state as reported by the settings store.
type Selection struct {
	Theme     string
	IconTheme string
}

// Store is the settings collaborator the scheduler reads and writes.
type Store interface {
	Current(ctx context.Context) (Selection, error)
	ApplyTheme(ctx context.Context, id string) error
	ApplyIconTheme(ctx context.Context, id string) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler periodically resolves the entry in effect and applies it when it
// differs from the live selection. All ticks run on a single goroutine so they
// never overlap.
type Scheduler struct {
	registry *Registry
	store    Store
	bus      *Bus
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	// lifecycle is held across Start and Stop, including Stop's wait, so a
	// new loop never starts while the previous one is still draining.
	lifecycle sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped scheduler.
func New(registry *Registry, store Store, bus *Bus, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: registry,
		store:    store,
		bus:      bus,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the configured tick cadence.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick cadence. A running loop picks it up on the
// next Start.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Start begins ticking. The first tick runs immediately. Calling Start on a
// running scheduler does nothing. A Start that races with Stop waits for the
// stopped loop to exit first.
func (s *Scheduler) Start() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.interval, s.done)
	s.logger.Debug("scheduler started", slog.Duration("interval", s.interval))
}

// Stop cancels the tick loop and waits for it to exit. No tick begins after
// Stop returns. Calling Stop on a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Debug("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stop may race with the ticker; cancellation wins.
			if ctx.Err() != nil {
				return
			}
			s.Tick(ctx)
		}
	}
}

// Tick runs one resolution-and-apply step. It is safe to call directly for a
// one-shot apply while the loop is stopped. Failures caused by canceling ctx
// are logged but not published.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()
	target, ok := Resolve(s.registry.Entries(), now)
	if !ok {
		return
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	current, err := s.store.Current(ctx)
	if err != nil {
		if parent.Err() != nil {
			s.logger.Debug("tick canceled", slog.Any("err", err))
			return
		}
		s.logger.Error("read current theme", slog.Any("err", err))
		s.publish(Event{Type: EventError, Err: fmt.Errorf("read current theme: %w", err)})
		return
	}

	if target.Theme != nil && target.Theme.ID != current.Theme {
		if err := s.store.ApplyTheme(ctx, target.Theme.ID); err != nil {
			if parent.Err() != nil {
				s.logger.Debug("theme apply canceled", slog.String("theme", target.Theme.ID), slog.Any("err", err))
				return
			}
			s.logger.Error("apply theme", slog.String("theme", target.Theme.ID), slog.Any("err", err))
			s.publish(Event{Type: EventError, Err: &ApplyError{Kind: "theme", ID: target.Theme.ID, Err: err}})
		} else {
			s.logger.Info("theme applied", slog.String("theme", target.Theme.ID), slog.String("at", target.At.String()))
			s.publish(Event{Type: EventThemeApplied, Name: target.Theme.Name()})
		}
	}

	if target.IconTheme != nil && target.IconTheme.ID != current.IconTheme {
		if err := s.store.ApplyIconTheme(ctx, target.IconTheme.ID); err != nil {
			if parent.Err() != nil {
				s.logger.Debug("icon theme apply canceled", slog.String("icon_theme", target.IconTheme.ID), slog.Any("err", err))
				return
			}
			s.logger.Error("apply icon theme", slog.String("icon_theme", target.IconTheme.ID), slog.Any("err", err))
			s.publish(Event{Type: EventError, Err: &ApplyError{Kind: "icon_theme", ID: target.IconTheme.ID, Err: err}})
		} else {
			s.logger.Info("icon theme applied", slog.String("icon_theme", target.IconTheme.ID), slog.String("at", target.At.String()))
			s.publish(Event{Type: EventIconThemeApplied, Name: target.IconTheme.Name()})
		}
	}
}

func (s *Scheduler) publish(e Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
