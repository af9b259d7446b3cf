package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteBackend is the durable large-object store, backed by the kv_entries
// table inside the asset database. The table is created by the asset database
// migrations; this backend only reads and writes it.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an open database handle. The handle is shared with
// the asset store and is not closed by this backend.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (s *SQLiteBackend) Name() string { return "sqlite" }

func (s *SQLiteBackend) Available() bool {
	if s == nil || s.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return false
	}
	var name string
	row := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`)
	return row.Scan(&name) == nil
}

func (s *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value     []byte
		storedRaw string
		ttlMillis int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT value, stored_at, ttl_millis FROM kv_entries WHERE key = ?`, key)
	if err := row.Scan(&value, &storedRaw, &ttlMillis); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get entry %q: %w", key, err)
	}

	storedAt, err := time.Parse(time.RFC3339Nano, storedRaw)
	if err != nil {
		storedAt = time.Time{}
	}
	env := Envelope{Value: value, StoredAt: storedAt, TTLMillis: ttlMillis}
	if env.Expired(time.Now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return value, true, nil
}

func (s *SQLiteBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO kv_entries (key, value, stored_at, ttl_millis) VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at, ttl_millis = excluded.ttl_millis`,
		key,
		value,
		time.Now().UTC().Format(time.RFC3339Nano),
		ttl.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("set entry %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove entry %q: %w", key, err)
	}
	return nil
}
