package settings

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/themeswitch/themeswitch/internal/logging"
	"github.com/themeswitch/themeswitch/internal/schedule"
	_ "modernc.org/sqlite"
)

// Selection kinds stored in the state database.
const (
	KindTheme     = "theme"
	KindIconTheme = "icon_theme"
)

// HistoryEntry is one recorded apply.
type HistoryEntry struct {
	ID        string
	Kind      string
	ThemeID   string
	Source    string
	AppliedAt time.Time
}

// StateStore persists the live selection and the apply history in SQLite.
type StateStore struct {
	db *sql.DB
}

// NewStateStore opens (or creates) the state database at dbPath. If dbPath is
// empty, the default location in the state directory is used.
func NewStateStore(dbPath string) (*StateStore, error) {
	if dbPath == "" {
		dir, err := logging.StateDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state db path: %w", err)
		}
		dbPath = filepath.Join(dir, "state.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	store := &StateStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *StateStore) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS selection (
			kind TEXT PRIMARY KEY,
			theme_id TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			theme_id TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			applied_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS history_applied_at ON history (applied_at);`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate state schema: %w", err)
		}
	}
	return nil
}

// Selection returns the recorded theme and icon theme. Missing kinds are empty.
func (s *StateStore) Selection(ctx context.Context) (schedule.Selection, error) {
	var sel schedule.Selection
	rows, err := s.db.QueryContext(ctx, `SELECT kind, theme_id FROM selection`)
	if err != nil {
		return sel, fmt.Errorf("load selection: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			return sel, fmt.Errorf("scan selection: %w", err)
		}
		switch kind {
		case KindTheme:
			sel.Theme = id
		case KindIconTheme:
			sel.IconTheme = id
		}
	}
	if err := rows.Err(); err != nil {
		return sel, fmt.Errorf("iterate selection: %w", err)
	}
	return sel, nil
}

// Set records id as the live selection for kind and appends a history row.
func (s *StateStore) Set(ctx context.Context, kind, id, source string, at time.Time) error {
	if kind != KindTheme && kind != KindIconTheme {
		return fmt.Errorf("unknown selection kind %q", kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO selection (kind, theme_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET theme_id = excluded.theme_id, updated_at = excluded.updated_at`,
		kind, id, at.UnixMilli()); err != nil {
		return fmt.Errorf("update selection: %w", err)
	}

	entryID := ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (id, kind, theme_id, source, applied_at) VALUES (?, ?, ?, ?, ?)`,
		entryID, kind, id, source, at.UnixMilli()); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// History returns up to limit entries, newest first. limit <= 0 means all.
func (s *StateStore) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `SELECT id, kind, theme_id, source, applied_at FROM history ORDER BY applied_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ms int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.ThemeID, &e.Source, &ms); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.AppliedAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// Prune removes history older than before.
func (s *StateStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE applied_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *StateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
