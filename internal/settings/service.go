// Package settings is the settings store the scheduler reads and writes: the
// live selection and apply history in SQLite, the installed-theme catalog,
// and the user hook commands run on every apply.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/themeswitch/themeswitch/internal/schedule"
)

// Service implements schedule.Store on top of a StateStore and a HookRunner.
type Service struct {
	state   *StateStore
	hooks   *HookRunner
	catalog *Catalog
	logger  *slog.Logger
	now     func() time.Time
	source  string
}

// NewService wires the state database, hooks and catalog. hooks may be nil.
func NewService(state *StateStore, hooks *HookRunner, catalog *Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{state: state, hooks: hooks, catalog: catalog, logger: logger, now: time.Now, source: "scheduler"}
}

// WithSource returns a copy that records applies under a different source
// label (for example "manual").
func (s *Service) WithSource(source string) *Service {
	c := *s
	c.source = source
	return &c
}

var _ schedule.Store = (*Service)(nil)

// Catalog returns the installed-theme catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Current implements schedule.Store.
func (s *Service) Current(ctx context.Context) (schedule.Selection, error) {
	return s.state.Selection(ctx)
}

// ApplyTheme implements schedule.Store.
func (s *Service) ApplyTheme(ctx context.Context, id string) error {
	return s.apply(ctx, KindTheme, id)
}

// ApplyIconTheme implements schedule.Store.
func (s *Service) ApplyIconTheme(ctx context.Context, id string) error {
	return s.apply(ctx, KindIconTheme, id)
}

// History returns recent applies, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return s.state.History(ctx, limit)
}

// The hook runs first: if it fails the selection is left unchanged, so the
// next tick retries.
func (s *Service) apply(ctx context.Context, kind, id string) error {
	if err := s.hooks.Run(ctx, kind, id); err != nil {
		return err
	}
	if err := s.state.Set(ctx, kind, id, s.source, s.now()); err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}
	s.logger.Debug("selection recorded", slog.String("kind", kind), slog.String("id", id), slog.String("source", s.source))
	return nil
}

// PruneHistory deletes applies recorded before the cutoff.
func (s *Service) PruneHistory(ctx context.Context, before time.Time) (int64, error) {
	return s.state.Prune(ctx, before)
}
