package sentiment

import (
	"context"
	"strings"
	"time"
)

// RawPost is a single post as received from a collector. It is immutable
// once collected.
type RawPost struct {
	ID          string
	Title       string
	Text        string
	Author      string
	URL         string
	Subreddit   string
	Score       int
	NumComments int
	CreatedAt   time.Time
	Platform    string
}

// FullText returns the text used for topic, region and sentiment matching.
func (p RawPost) FullText() string {
	if p.Title == "" {
		return p.Text
	}
	if p.Text == "" {
		return p.Title
	}
	return p.Title + " " + p.Text
}

// MentionText is the short form shown in topic sample mentions.
func (p RawPost) MentionText() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Text
}

// Engagement is the popularity weight used for overall scoring and
// biggest-movers ranking.
func (p RawPost) Engagement() int {
	return p.Score + p.NumComments
}

// IsMalformed reports whether the post lacks the fields required for
// aggregation. Malformed posts are skipped, never fatal.
func (p RawPost) IsMalformed() bool {
	return p.ID == "" && strings.TrimSpace(p.FullText()) == ""
}

// TaggedPost is a RawPost plus the derived topic, region and sentiment
// labels. Tagging is a pure function of the post text.
type TaggedPost struct {
	Post      RawPost
	Topics    []string
	Region    string // empty when no region was detected
	Sentiment float64
}

// Mention is a sample post surfaced under a topic.
type Mention struct {
	Text      string  `json:"text"`
	Sentiment float64 `json:"sentiment"`
	Source    string  `json:"source"`
	Region    *string `json:"region"`
}

// RegionStat is the per-region breakdown inside a topic summary.
type RegionStat struct {
	Sentiment float64 `json:"sentiment"`
	Volume    int     `json:"volume"`
}

// TopicSummary is one monitored topic's rollup for the day.
type TopicSummary struct {
	Name        string                `json:"name"`
	Sentiment   float64               `json:"sentiment"`
	Volume      int                   `json:"volume"`
	ByRegion    map[string]RegionStat `json:"byRegion,omitempty"`
	TopMentions []Mention             `json:"topMentions"`
}

// CategorySummary groups related topics under a higher-level label.
type CategorySummary struct {
	Name      string   `json:"name"`
	Sentiment float64  `json:"sentiment"`
	Volume    int      `json:"volume"`
	Delta     float64  `json:"delta"`
	Topics    []string `json:"topics"`
}

// Mover is an entry in the biggest-movers ranking.
type Mover struct {
	Name      string  `json:"name"`
	Sentiment float64 `json:"sentiment"`
	Delta     float64 `json:"delta"`
	Volume    int     `json:"volume"`
}

// DailySnapshot is the complete daily aggregation result served to
// consumers. It is built once per collection cycle and never mutated.
type DailySnapshot struct {
	Date          string            `json:"date"`
	Source        string            `json:"source"`
	OverallScore  float64           `json:"overallScore"`
	ScoreDelta    float64           `json:"scoreDelta"`
	TotalVolume   int               `json:"totalVolume"`
	Categories    []CategorySummary `json:"categories"`
	BiggestMovers []Mover           `json:"biggestMovers"`
	Topics        []TopicSummary    `json:"topics"`
	Regions       map[string]string `json:"regions"`
	Stale         bool              `json:"stale,omitempty"`
	CachedAt      string            `json:"cachedAt,omitempty"`
}

// TopicTrend is one topic's value on a single history day.
type TopicTrend struct {
	Name      string  `json:"name"`
	Sentiment float64 `json:"sentiment"`
	Volume    int     `json:"volume"`
}

// HistoryPoint is one day in the trend series.
type HistoryPoint struct {
	Date   string       `json:"date"`
	Topics []TopicTrend `json:"topics"`
}

// Collector fetches raw posts from an upstream platform.
type Collector interface {
	// Platform returns the upstream platform name ("reddit", "twitter").
	Platform() string

	// FetchPosts fetches recent posts scoped to the monitored keywords.
	FetchPosts(ctx context.Context) ([]RawPost, error)
}

// CachedSnapshot is a snapshot as persisted by a store.
type CachedSnapshot struct {
	Snapshot DailySnapshot `json:"data"`
	CachedAt time.Time     `json:"cachedAt"`
}

// SnapshotStore persists the last known good snapshot. Load returns
// (nil, nil) on a cache miss.
type SnapshotStore interface {
	Save(ctx context.Context, snap *DailySnapshot) error
	Load(ctx context.Context) (*CachedSnapshot, error)
}
