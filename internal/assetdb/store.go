package assetdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"recipekit/internal/config"
)

// timeLayout is the stored_at format. Unlike RFC3339Nano it always emits
// nine fractional digits, so UTC timestamps are fixed-width and lexical
// ordering in SQL matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages asset persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the asset database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.AssetDBPath())
}

// OpenPath opens the asset database at an explicit path. Used by tests and
// tooling that work outside a full configuration.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle so the kvstore sqlite backend can share
// the database. Callers must not close it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Images returns the image partition.
func (s *Store) Images() *Partition {
	return &Partition{db: s.db, table: "asset_images", name: "images"}
}

// Payloads returns the auxiliary JSON payload partition.
func (s *Store) Payloads() *Partition {
	return &Partition{db: s.db, table: "asset_payloads", name: "payloads"}
}

// Partition is one named asset namespace inside the store. Image and payload
// partitions are disjoint: the same id may exist in both without conflict.
type Partition struct {
	db    *sql.DB
	table string
	name  string
}

// Name identifies the partition ("images" or "payloads").
func (p *Partition) Name() string { return p.name }

// Put upserts the asset bytes under id, refreshing the stored-at timestamp.
func (p *Partition) Put(ctx context.Context, id string, data []byte) error {
	if id == "" {
		return errors.New("asset id is empty")
	}
	_, err := p.db.ExecContext(
		ctx,
		`INSERT INTO `+p.table+` (id, bytes, stored_at) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET bytes = excluded.bytes, stored_at = excluded.stored_at`,
		id,
		data,
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("put %s asset %q: %w", p.name, id, err)
	}
	return nil
}

// Get returns the asset bytes for id, or nil when absent.
func (p *Partition) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	row := p.db.QueryRowContext(ctx, `SELECT bytes FROM `+p.table+` WHERE id = ?`, id)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s asset %q: %w", p.name, id, err)
	}
	return data, nil
}

// Exists reports whether an asset is stored under id.
func (p *Partition) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	row := p.db.QueryRowContext(ctx, `SELECT 1 FROM `+p.table+` WHERE id = ?`, id)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s asset %q: %w", p.name, id, err)
	}
	return true, nil
}

// Delete removes the asset under id, reporting whether a row was deleted.
func (p *Partition) Delete(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM `+p.table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s asset %q: %w", p.name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListIDs returns every stored asset id, ordered.
func (p *Partition) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id FROM `+p.table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list %s assets: %w", p.name, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of stored assets.
func (p *Partition) Count(ctx context.Context) (int, error) {
	var count int
	row := p.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+p.table)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s assets: %w", p.name, err)
	}
	return count, nil
}

// Clear removes every asset from the partition.
func (p *Partition) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM `+p.table); err != nil {
		return fmt.Errorf("clear %s assets: %w", p.name, err)
	}
	return nil
}

// GarbageCollect deletes every asset older than maxAgeDays and returns the
// count deleted.
func (p *Partition) GarbageCollect(ctx context.Context, maxAgeDays int) (int64, error) {
	if maxAgeDays <= 0 {
		return 0, fmt.Errorf("garbage collect %s: max age must be positive, got %d", p.name, maxAgeDays)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	res, err := p.db.ExecContext(
		ctx,
		`DELETE FROM `+p.table+` WHERE stored_at < ?`,
		cutoff.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("garbage collect %s: %w", p.name, err)
	}
	return res.RowsAffected()
}

// StoredAt returns the write timestamp of the asset under id, or the zero
// time when absent.
func (p *Partition) StoredAt(ctx context.Context, id string) (time.Time, error) {
	var raw string
	row := p.db.QueryRowContext(ctx, `SELECT stored_at FROM `+p.table+` WHERE id = ?`, id)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("stored at %s asset %q: %w", p.name, id, err)
	}
	stamp, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored_at for %q: %w", id, err)
	}
	return stamp, nil
}
