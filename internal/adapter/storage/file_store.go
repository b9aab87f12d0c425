package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

// FileStore keeps the last known good snapshot in a single JSON file.
// It is the zero-dependency cache backend for deployments without
// Postgres.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshot store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the cache file with the snapshot and a timestamp.
func (s *FileStore) Save(ctx context.Context, snap *sentiment.DailySnapshot) error {
	cached := sentiment.CachedSnapshot{
		Snapshot: *snap,
		CachedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing cache file: %w", err)
	}
	return nil
}

// Load reads the cache file. A missing file is a cache miss, not an
// error.
func (s *FileStore) Load(ctx context.Context) (*sentiment.CachedSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cache file: %w", err)
	}

	var cached sentiment.CachedSnapshot
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("error parsing cache file: %w", err)
	}

	return &cached, nil
}
