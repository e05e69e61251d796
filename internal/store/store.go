// Package store persists parsed workbook snapshots so repeated loads of an
// unchanged source skip spreadsheet parsing.
package store

import (
	"context"
	"time"
)

// Snapshot is one cached, JSON-encoded model.Datasets keyed by the sha256 of
// the source bytes.
type Snapshot struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines the snapshot cache.
type Store interface {
	// GetSnapshot returns the live snapshot for key, or nil when absent or
	// expired.
	GetSnapshot(ctx context.Context, key string) (*Snapshot, error)
	// SetSnapshot upserts snap under snap.Key. ID, CreatedAt and ExpiresAt
	// are assigned by the store.
	SetSnapshot(ctx context.Context, snap Snapshot, ttl time.Duration) error
	// ListSnapshots returns metadata for every stored snapshot, newest first.
	// Data is not populated.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	DeleteExpiredSnapshots(ctx context.Context) (int, error)
	PurgeSnapshots(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
