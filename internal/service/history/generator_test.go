package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

var (
	day1 = time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, time.August, 25, 9, 30, 0, 0, time.UTC)
)

func TestHashStringStable(t *testing.T) {
	assert.Equal(t, hashString("housing"), hashString("housing"))
	assert.NotEqual(t, hashString("housing"), hashString("elections"))
	assert.Equal(t, int32(0), hashString(""))
}

func TestSeededRandomRange(t *testing.T) {
	for i := int64(-1000); i < 1000; i += 7 {
		v := seededRandom(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	// Same seed, same value
	assert.Equal(t, seededRandom(42), seededRandom(42))
}

func TestHistoryShape(t *testing.T) {
	g := NewGenerator()

	points := g.History(day1, 30)
	require.Len(t, points, 30)

	// Oldest first, consecutive days ending today
	assert.Equal(t, "2026-07-22", points[0].Date)
	assert.Equal(t, "2026-08-20", points[29].Date)
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Date, points[i].Date)
	}

	for _, p := range points {
		assert.GreaterOrEqual(t, len(p.Topics), 6)
		assert.LessOrEqual(t, len(p.Topics), 10)
		for _, topic := range p.Topics {
			assert.GreaterOrEqual(t, topic.Sentiment, -1.0)
			assert.LessOrEqual(t, topic.Sentiment, 1.0)
			assert.GreaterOrEqual(t, topic.Volume, 40)
			assert.Less(t, topic.Volume, 300)
		}
	}
}

func TestHistoryDeterministic(t *testing.T) {
	g := NewGenerator()

	first := g.History(day1, 30)
	second := g.History(day1, 30)
	require.Equal(t, first, second)
}

func TestHistoryOverlappingWindowsAgree(t *testing.T) {
	g := NewGenerator()

	// Generated five days apart; the overlapping dates must match exactly
	older := g.History(day1, 30)
	newer := g.History(day2, 30)

	byDate := map[string]sentiment.HistoryPoint{}
	for _, p := range older {
		byDate[p.Date] = p
	}

	overlap := 0
	for _, p := range newer {
		prior, ok := byDate[p.Date]
		if !ok {
			continue
		}
		overlap++
		require.Equal(t, prior, p, "history diverged on %s", p.Date)
	}
	assert.Equal(t, 25, overlap)
}

func TestDemoSnapshotDeterministic(t *testing.T) {
	g := NewGenerator()

	first := g.DemoSnapshot(day1)
	second := g.DemoSnapshot(day1)
	require.Equal(t, first, second)
}

func TestDemoSnapshotShape(t *testing.T) {
	g := NewGenerator()

	snap := g.DemoSnapshot(day1)
	require.NotNil(t, snap)

	assert.Equal(t, "2026-08-20", snap.Date)
	assert.Equal(t, "demo", snap.Source)
	assert.GreaterOrEqual(t, len(snap.Topics), 6)
	assert.LessOrEqual(t, len(snap.Topics), 10)
	assert.LessOrEqual(t, len(snap.BiggestMovers), 5)
	assert.Len(t, snap.Regions, 6)

	total := 0
	for i, topic := range snap.Topics {
		total += topic.Volume
		assert.GreaterOrEqual(t, topic.Sentiment, -1.0)
		assert.LessOrEqual(t, topic.Sentiment, 1.0)
		assert.Len(t, topic.ByRegion, 6)
		assert.NotEmpty(t, topic.TopMentions)

		if i > 0 {
			assert.LessOrEqual(t, topic.Volume, snap.Topics[i-1].Volume)
		}
	}
	assert.Equal(t, total, snap.TotalVolume)
	assert.GreaterOrEqual(t, snap.OverallScore, -1.0)
	assert.LessOrEqual(t, snap.OverallScore, 1.0)
}

func TestDemoSnapshotAgreesWithNewestHistoryDay(t *testing.T) {
	g := NewGenerator()

	snap := g.DemoSnapshot(day1)
	points := g.History(day1, 7)
	today := points[len(points)-1]

	require.Equal(t, snap.Date, today.Date)
	require.Equal(t, len(snap.Topics), len(today.Topics))

	bySnapName := map[string]int{}
	for _, topic := range snap.Topics {
		bySnapName[topic.Name] = topic.Volume
	}
	for _, topic := range today.Topics {
		volume, ok := bySnapName[topic.Name]
		require.True(t, ok, "topic %s missing from snapshot", topic.Name)
		assert.Equal(t, volume, topic.Volume)
	}
}
