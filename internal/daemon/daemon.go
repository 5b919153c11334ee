// Package daemon wires the schedule engine to the settings store, the
// notifiers and the config watcher, and runs them until shutdown.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/themeswitch/themeswitch/internal/config"
	"github.com/themeswitch/themeswitch/internal/notify"
	"github.com/themeswitch/themeswitch/internal/schedule"
	"github.com/themeswitch/themeswitch/internal/settings"
	"github.com/themeswitch/themeswitch/internal/watcher"
)

// Options configures a Runner.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Store      *settings.Service
	Notifier   *notify.Manager
	Logger     *slog.Logger
	// Watch enables reloading when the config file changes. It is also
	// enabled by scheduler.watch_config.
	Watch bool
}

// Runner owns the event bus, the mapping registry, the scheduler and its
// observers for the lifetime of the process.
type Runner struct {
	cfgPath string
	store   *settings.Service
	logger  *slog.Logger
	watch   bool

	bus       *schedule.Bus
	registry  *schedule.Registry
	scheduler *schedule.Scheduler
	notifier  *notify.Manager
	watcher   *watcher.ConfigWatcher
	reloads   chan string

	// mu serializes reloads against each other and against shutdown.
	mu      sync.Mutex
	cfg     *config.Config
	stopped bool

	// loc is read by the scheduler clock while Reload holds mu.
	loc atomic.Pointer[time.Location]
}

// New builds a stopped runner. Mappings are registered by Run, so observers
// that subscribe to Bus before Run see the registration events.
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("daemon: config is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("daemon: settings store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewFromConfig(opts.Config.Notify, logger)
	}

	bus := schedule.NewBus()
	r := &Runner{
		cfgPath:  opts.ConfigPath,
		store:    opts.Store,
		logger:   logger,
		watch:    opts.Watch || opts.Config.Scheduler.WatchConfig,
		bus:      bus,
		registry: schedule.NewRegistry(opts.Store.Catalog(), bus, logger),
		notifier: notifier,
		reloads:  make(chan string, 1),
		cfg:      opts.Config,
	}
	r.loc.Store(opts.Config.Location())
	r.scheduler = schedule.New(r.registry, opts.Store, bus,
		schedule.WithInterval(opts.Config.Interval()),
		schedule.WithClock(r.Now),
		schedule.WithLogger(logger))
	r.watcher = watcher.New(r.requestReload, 0, logger)
	return r, nil
}

// Bus returns the event stream. Subscribe before Run to observe registration.
func (r *Runner) Bus() *schedule.Bus { return r.bus }

// Registry returns the mapping registry.
func (r *Runner) Registry() *schedule.Registry { return r.registry }

// Scheduler returns the scheduler.
func (r *Runner) Scheduler() *schedule.Scheduler { return r.scheduler }

// Config returns the configuration currently in effect.
func (r *Runner) Config() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Now reads the wall clock in the timezone of the configuration in effect.
func (r *Runner) Now() time.Time {
	return time.Now().In(r.loc.Load())
}

// Run registers the configured mappings, starts the scheduler and blocks until
// ctx is canceled. On return the scheduler is stopped and the bus closed.
func (r *Runner) Run(ctx context.Context) error {
	events, unsubscribe := r.bus.Subscribe(0)
	defer unsubscribe()

	r.registry.Register(r.Config().ScheduleMappings()...)
	r.scheduler.Start()
	r.logger.Info("scheduler running",
		slog.Int("mappings", r.registry.Len()),
		slog.Duration("interval", r.scheduler.Interval()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.notifier.Pump(gctx, events)
	})

	if r.watch && r.cfgPath != "" {
		if err := r.watcher.Watch(r.cfgPath); err != nil {
			r.logger.Warn("config watch disabled", slog.String("path", r.cfgPath), slog.Any("err", err))
		} else {
			g.Go(func() error {
				r.reloadLoop(gctx)
				return nil
			})
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		r.watcher.Stop()
		r.shutdown()
		r.bus.Close()
		return nil
	})

	err := g.Wait()
	r.logger.Info("scheduler shut down")
	return err
}

// shutdown stops the scheduler for good. Later reloads leave it stopped.
func (r *Runner) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	r.scheduler.Stop()
}

// Reload replaces the registered mappings with those of cfg: the scheduler is
// stopped, the registry cleared and refilled, and the scheduler restarted if
// it was running. Catalog extras, the tick interval and the timezone are
// refreshed too. After Run has returned the scheduler is not restarted.
func (r *Runner) Reload(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasRunning := r.scheduler.Running()
	r.scheduler.Stop()
	r.registry.UnregisterAll()

	r.store.Catalog().Reset(cfg.Themes)
	r.scheduler.SetInterval(cfg.Interval())
	r.loc.Store(cfg.Location())
	r.registry.Register(cfg.ScheduleMappings()...)
	r.cfg = cfg

	if wasRunning && !r.stopped {
		r.scheduler.Start()
	}
	r.logger.Info("mappings reloaded", slog.Int("mappings", r.registry.Len()))
}

func (r *Runner) requestReload(path string) {
	select {
	case r.reloads <- path:
	default:
	}
}

func (r *Runner) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-r.reloads:
			cfg, _, err := config.Load(path)
			if err != nil {
				r.logger.Error("reload config", slog.String("path", path), slog.Any("err", err))
				r.bus.Publish(schedule.Event{Type: schedule.EventError, Err: fmt.Errorf("reload config: %w", err)})
				continue
			}
			r.Reload(cfg)
		}
	}
}
