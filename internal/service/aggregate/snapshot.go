package aggregate

import (
	"sort"
	"time"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

const maxMovers = 5

// Builder assembles the published daily snapshot from one batch of tagged
// posts. It holds no state between builds; day-over-day deltas come from
// the previous snapshot the caller supplies.
type Builder struct {
	aggregator   *Aggregator
	regionLabels map[string]string
}

// NewBuilder creates a snapshot builder.
func NewBuilder(aggregator *Aggregator, regionLabels map[string]string) *Builder {
	return &Builder{aggregator: aggregator, regionLabels: regionLabels}
}

// Build produces the day's snapshot. Zero posts yields a valid empty
// snapshot, never an error.
func (b *Builder) Build(posts []sentiment.TaggedPost, prev *sentiment.DailySnapshot, now time.Time, source string) *sentiment.DailySnapshot {
	result := b.aggregator.Aggregate(posts)

	overall := overallScore(posts)

	scoreDelta := 0.0
	if prev != nil {
		scoreDelta = Round2(overall - prev.OverallScore)
	}

	for i := range result.Categories {
		result.Categories[i].Delta = categoryDelta(result.Categories[i], prev)
	}

	return &sentiment.DailySnapshot{
		Date:          now.UTC().Format("2006-01-02"),
		Source:        source,
		OverallScore:  overall,
		ScoreDelta:    scoreDelta,
		TotalVolume:   len(posts),
		Categories:    result.Categories,
		BiggestMovers: biggestMovers(posts, prev),
		Topics:        result.Topics,
		Regions:       b.regionLabels,
	}
}

// overallScore is the engagement-weighted average sentiment, 0 when the
// total weight is 0.
func overallScore(posts []sentiment.TaggedPost) float64 {
	totalWeight := 0
	weightedSum := 0.0
	for _, p := range posts {
		w := p.Post.Engagement()
		totalWeight += w
		weightedSum += p.Sentiment * float64(w)
	}
	if totalWeight == 0 {
		return 0
	}
	return Round2(weightedSum / float64(totalWeight))
}

// biggestMovers ranks posts by engagement descending, keeping input order
// on ties, and reports the top entries under their first matched topic.
func biggestMovers(posts []sentiment.TaggedPost, prev *sentiment.DailySnapshot) []sentiment.Mover {
	ranked := make([]sentiment.TaggedPost, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Post.Engagement() > ranked[j].Post.Engagement()
	})

	if len(ranked) > maxMovers {
		ranked = ranked[:maxMovers]
	}

	movers := make([]sentiment.Mover, 0, len(ranked))
	for _, p := range ranked {
		name := "general"
		if len(p.Topics) > 0 {
			name = p.Topics[0]
		}
		movers = append(movers, sentiment.Mover{
			Name:      name,
			Sentiment: p.Sentiment,
			Delta:     moverDelta(name, p.Sentiment, prev),
			Volume:    p.Post.Engagement(),
		})
	}
	return movers
}

func moverDelta(name string, score float64, prev *sentiment.DailySnapshot) float64 {
	if prev == nil {
		return 0
	}
	for _, m := range prev.BiggestMovers {
		if m.Name == name {
			return Round2(score - m.Sentiment)
		}
	}
	return 0
}

func categoryDelta(cat sentiment.CategorySummary, prev *sentiment.DailySnapshot) float64 {
	if prev == nil {
		return 0
	}
	for _, p := range prev.Categories {
		if p.Name == cat.Name {
			return Round2(cat.Sentiment - p.Sentiment)
		}
	}
	return 0
}
