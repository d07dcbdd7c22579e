// Package sqlkv keeps the kv blobs in a single "records" table of a SQL
// database, one row per key.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vbonduro/shishalog/internal/kv"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// pgDiskFull is the Postgres SQLSTATE for disk_full.
const pgDiskFull = "53100"

type queries struct {
	get string
	put string
}

var dialectQueries = map[Dialect]queries{
	SQLite: {
		get: `SELECT payload FROM records WHERE key = ?`,
		put: `INSERT INTO records (key, payload, updated_at) VALUES (?, ?, datetime('now'))
			ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	},
	Postgres: {
		get: `SELECT payload FROM records WHERE key = $1`,
		put: `INSERT INTO records (key, payload, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
	},
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	q       queries
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, q: dialectQueries[dialect]}
}

func (s *Store) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.q.get, string(key)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return payload, nil
}

func (s *Store) Put(ctx context.Context, key kv.Key, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.put, string(key), string(value)); err != nil {
		if isFull(err) {
			return fmt.Errorf("%w: %w", kv.ErrStorageFull, err)
		}
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func isFull(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_FULL {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDiskFull {
		return true
	}
	return false
}
