package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	key        TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	rows       INTEGER NOT NULL DEFAULT 0,
	data       BLOB NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_expires_at ON snapshots(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Timestamps are bound as parameters rather than compared against
// datetime('now') so both sides share the driver's text encoding.

func (s *SQLiteStore) GetSnapshot(ctx context.Context, key string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, key, source, rows, data, created_at, expires_at FROM snapshots
		 WHERE key = ? AND expires_at > ?`,
		key, time.Now().UTC(),
	)

	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Key, &snap.Source, &snap.Rows, &snap.Data, &snap.CreatedAt, &snap.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get snapshot")
	}
	return &snap, nil
}

func (s *SQLiteStore) SetSnapshot(ctx context.Context, snap Snapshot, ttl time.Duration) error {
	if snap.Key == "" {
		return eris.New("sqlite: set snapshot: empty key")
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, key, source, rows, data, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET source = excluded.source, rows = excluded.rows, data = excluded.data,
		 created_at = excluded.created_at, expires_at = excluded.expires_at`,
		uuid.New().String(), snap.Key, snap.Source, snap.Rows, snap.Data, now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set snapshot")
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, source, rows, created_at, expires_at FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close() //nolint:errcheck

	snaps := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Key, &snap.Source, &snap.Rows, &snap.CreatedAt, &snap.ExpiresAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}

func (s *SQLiteStore) DeleteExpiredSnapshots(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired snapshots")
	}
	return rowsAffected(res)
}

func (s *SQLiteStore) PurgeSnapshots(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge snapshots")
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
