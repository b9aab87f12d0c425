package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFileStore(path)

	snap := &sentiment.DailySnapshot{
		Date:         "2026-04-02",
		Source:       "reddit",
		OverallScore: -0.25,
		TotalVolume:  42,
		Topics: []sentiment.TopicSummary{
			{Name: "housing", Sentiment: -0.5, Volume: 42, TopMentions: []sentiment.Mention{}},
		},
		Regions: map[string]string{"austin-metro": "Austin Metro"},
	}

	before := time.Now().UTC()
	require.NoError(t, store.Save(context.Background(), snap))

	cached, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)

	assert.Equal(t, *snap, cached.Snapshot)
	assert.False(t, cached.CachedAt.Before(before.Truncate(time.Second)))
}

func TestFileStoreMissingFileIsCacheMiss(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	cached, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	store := NewFileStore(path)
	cached, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, cached)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewFileStore(path)

	first := &sentiment.DailySnapshot{Date: "2026-04-01", Source: "reddit"}
	second := &sentiment.DailySnapshot{Date: "2026-04-02", Source: "reddit"}

	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), second))

	cached, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "2026-04-02", cached.Snapshot.Date)
}
