package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

// SnapshotStore persists daily snapshots in Postgres, one row per
// calendar date, with the full document as JSONB.
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore creates a new snapshot store.
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// EnsureSchema creates the snapshots table if it does not exist.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id UUID PRIMARY KEY,
			snapshot_date DATE NOT NULL UNIQUE,
			source TEXT NOT NULL,
			document JSONB NOT NULL,
			cached_at TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating snapshots table: %w", err)
	}
	return nil
}

// Save upserts the snapshot for its date. A same-day rebuild replaces the
// stored document.
func (s *SnapshotStore) Save(ctx context.Context, snap *sentiment.DailySnapshot) error {
	query := `
		INSERT INTO snapshots (id, snapshot_date, source, document, cached_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (snapshot_date) DO UPDATE
		SET
			source = $3,
			document = $4,
			cached_at = $5
	`

	document, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		uuid.New().String(),
		snap.Date,
		snap.Source,
		document,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Load returns the most recent stored snapshot, or (nil, nil) when the
// table is empty.
func (s *SnapshotStore) Load(ctx context.Context) (*sentiment.CachedSnapshot, error) {
	query := `
		SELECT document, cached_at
		FROM snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	var document []byte
	var cachedAt time.Time

	err := s.db.QueryRow(ctx, query).Scan(&document, &cachedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying snapshot: %w", err)
	}

	var snap sentiment.DailySnapshot
	if err := json.Unmarshal(document, &snap); err != nil {
		return nil, fmt.Errorf("error unmarshaling snapshot: %w", err)
	}

	return &sentiment.CachedSnapshot{Snapshot: snap, CachedAt: cachedAt}, nil
}
