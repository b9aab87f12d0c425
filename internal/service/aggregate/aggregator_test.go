package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

func tagged(id string, topics []string, region string, score float64) sentiment.TaggedPost {
	return sentiment.TaggedPost{
		Post:      sentiment.RawPost{ID: id, Title: "post " + id, Platform: "reddit"},
		Topics:    topics,
		Region:    region,
		Sentiment: score,
	}
}

func TestAggregateTopicVolumes(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", []string{"housing"}, "", 0.5),
		tagged("2", []string{"housing", "elections"}, "central-texas", -0.5),
		tagged("3", []string{"elections"}, "", 0),
		tagged("4", []string{"housing"}, "", 1),
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Topics, 2)

	// housing: 3 posts, elections: 2; sorted by volume descending
	assert.Equal(t, "housing", result.Topics[0].Name)
	assert.Equal(t, 3, result.Topics[0].Volume)
	assert.Equal(t, "elections", result.Topics[1].Name)
	assert.Equal(t, 2, result.Topics[1].Volume)

	// mean(0.5, -0.5, 1) = 1/3, rounded to 2 decimals
	assert.Equal(t, 0.33, result.Topics[0].Sentiment)
	assert.Equal(t, -0.25, result.Topics[1].Sentiment)
}

func TestAggregateRegions(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", []string{"housing"}, "gulf-coast", 0.4),
		tagged("2", []string{"housing"}, "gulf-coast", 0.6),
		tagged("3", []string{"housing"}, "", -1),
		tagged("4", []string{"elections"}, "", 0),
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Topics, 2)

	housing := result.Topics[0]
	require.Contains(t, housing.ByRegion, "gulf-coast")
	assert.Equal(t, 2, housing.ByRegion["gulf-coast"].Volume)
	assert.Equal(t, 0.5, housing.ByRegion["gulf-coast"].Sentiment)

	// The no-region bucket never appears
	assert.Len(t, housing.ByRegion, 1)

	// A topic with only statewide posts has no byRegion at all
	assert.Nil(t, result.Topics[1].ByRegion)
}

func TestAggregateMentionsCappedInInsertionOrder(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	var posts []sentiment.TaggedPost
	for i := 0; i < 10; i++ {
		p := tagged(string(rune('a'+i)), []string{"housing"}, "", 0)
		posts = append(posts, p)
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Topics, 1)
	require.Len(t, result.Topics[0].TopMentions, 6)

	// First six posts in input order, regardless of engagement
	for i := 0; i < 6; i++ {
		assert.Equal(t, "post "+string(rune('a'+i)), result.Topics[0].TopMentions[i].Text)
	}
}

func TestAggregateStableTieBreak(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", []string{"elections"}, "", 0),
		tagged("2", []string{"housing"}, "", 0),
		tagged("3", []string{"elections"}, "", 0),
		tagged("4", []string{"housing"}, "", 0),
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Topics, 2)

	// Equal volume: first-seen topic stays first
	assert.Equal(t, "elections", result.Topics[0].Name)
	assert.Equal(t, "housing", result.Topics[1].Name)
}

func TestAggregateCategoryFirstMatchWins(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	// housing is in Cost of Living, economy & jobs in Economy; the post
	// lands only in the first by table order
	posts := []sentiment.TaggedPost{
		tagged("1", []string{"housing", "economy & jobs"}, "", 0.2),
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, "Cost of Living", result.Categories[0].Name)
	assert.Equal(t, 1, result.Categories[0].Volume)
	assert.Equal(t, []string{"housing", "economy & jobs"}, result.Categories[0].Topics)
}

func TestAggregateCategoryExcludesUnmatched(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", []string{"gun policy"}, "", -0.4), // no category covers gun policy
		tagged("2", []string{"healthcare"}, "", 0.8),
		tagged("3", []string{"education"}, "", -0.2),
	}

	result := agg.Aggregate(posts)
	require.Len(t, result.Categories, 2)

	// Table order is preserved
	assert.Equal(t, "Health Care", result.Categories[0].Name)
	assert.Equal(t, 0.8, result.Categories[0].Sentiment)
	assert.Equal(t, "Education", result.Categories[1].Name)
	assert.Equal(t, -0.2, result.Categories[1].Sentiment)
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	result := agg.Aggregate(nil)
	assert.NotNil(t, result.Topics)
	assert.Empty(t, result.Topics)
	assert.NotNil(t, result.Categories)
	assert.Empty(t, result.Categories)
}

func TestAggregateDeterministic(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", []string{"housing", "property tax"}, "north-texas", 0.17),
		tagged("2", []string{"elections"}, "", -0.62),
		tagged("3", []string{"housing"}, "gulf-coast", 0.41),
		tagged("4", []string{"energy & grid", "economy & jobs"}, "west-texas", -0.88),
	}

	first := agg.Aggregate(posts)
	second := agg.Aggregate(posts)
	require.Equal(t, first, second)
}

func TestAggregateZeroVolumeTopicsNeverEmitted(t *testing.T) {
	agg := NewAggregator(sentiment.Categories)

	posts := []sentiment.TaggedPost{
		tagged("1", nil, "central-texas", 0.9), // tagged but no topics
	}

	result := agg.Aggregate(posts)
	assert.Empty(t, result.Topics)
}
