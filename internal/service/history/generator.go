package history

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
	"github.com/cjblain10/tx-sentiment-landscape/internal/service/aggregate"
)

// epoch anchors the day key. Every derived value is a pure function of
// (string key, days since epoch), so the same calendar day always
// reproduces the same numbers across runs and across processes.
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generator produces deterministic synthetic sentiment data: the demo
// snapshot served when no live or cached data exists, and the pseudo
// historical series behind trend sparklines. No I/O, no ambient
// randomness.
type Generator struct {
	topics     []sentiment.TopicSeed
	regions    []sentiment.RegionSeed
	labels     map[string]string
	mentions   map[string][]string
	categories []sentiment.Category
}

// NewGenerator creates a generator over the standard seed tables.
func NewGenerator() *Generator {
	return &Generator{
		topics:     sentiment.TopicSeeds,
		regions:    sentiment.RegionSeeds,
		labels:     sentiment.RegionLabels,
		mentions:   sentiment.SampleMentions,
		categories: sentiment.Categories,
	}
}

// hashString is a polynomial rolling hash with int32 wraparound.
func hashString(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}

func seed(s string, offset int) int64 {
	return int64(hashString(s)) + int64(offset)
}

// seededRandom maps a seed to a deterministic value in [0, 1).
func seededRandom(s int64) float64 {
	x := math.Sin(float64(s)) * 10000
	return x - math.Floor(x)
}

func dayKey(t time.Time) int {
	return int(t.UTC().Sub(epoch) / (24 * time.Hour))
}

func genSentiment(name string, day int) float64 {
	return aggregate.Round2(seededRandom(seed(name, day))*2 - 1)
}

func genVolume(name string, day int) int {
	return int(math.Floor(40 + seededRandom(seed(name+"vol", day))*260))
}

// activeTopics picks the 6-10 topics considered active on the given day.
func (g *Generator) activeTopics(day int) []string {
	count := 6 + int(math.Floor(seededRandom(seed("active", day))*5))

	names := make([]string, len(g.topics))
	for i, t := range g.topics {
		names[i] = t.Name
	}
	sort.SliceStable(names, func(i, j int) bool {
		return seed(names[i], day) < seed(names[j], day)
	})

	if count > len(names) {
		count = len(names)
	}
	return names[:count]
}

// History returns days consecutive points ending at now, oldest first.
func (g *Generator) History(now time.Time, days int) []sentiment.HistoryPoint {
	points := make([]sentiment.HistoryPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		date := now.UTC().AddDate(0, 0, -i)
		day := dayKey(date)

		active := g.activeTopics(day)
		topics := make([]sentiment.TopicTrend, 0, len(active))
		for _, name := range active {
			topics = append(topics, sentiment.TopicTrend{
				Name:      name,
				Sentiment: genSentiment(name, day),
				Volume:    genVolume(name, day),
			})
		}

		points = append(points, sentiment.HistoryPoint{
			Date:   date.Format("2006-01-02"),
			Topics: topics,
		})
	}

	return points
}

// DemoSnapshot builds a full synthetic snapshot for the given day, shaped
// identically to live data so consumers render it without special cases.
func (g *Generator) DemoSnapshot(now time.Time) *sentiment.DailySnapshot {
	day := dayKey(now)
	active := g.activeTopics(day)

	topics := make([]sentiment.TopicSummary, 0, len(active))
	totalVolume := 0
	weightedSum := 0.0

	for _, name := range active {
		score := genSentiment(name, day)
		volume := genVolume(name, day)
		totalVolume += volume
		weightedSum += score * float64(volume)

		byRegion := make(map[string]sentiment.RegionStat, len(g.regions))
		for _, region := range g.regions {
			byRegion[region.ID] = sentiment.RegionStat{
				Sentiment: genSentiment(name+region.ID, day),
				Volume:    int(math.Floor(float64(volume) * (0.08 + seededRandom(seed(name+region.ID+"v", day))*0.25))),
			}
		}

		topics = append(topics, sentiment.TopicSummary{
			Name:        name,
			Sentiment:   score,
			Volume:      volume,
			ByRegion:    byRegion,
			TopMentions: g.demoMentions(name, day),
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Volume > topics[j].Volume
	})

	overall := 0.0
	if totalVolume > 0 {
		overall = aggregate.Round2(weightedSum / float64(totalVolume))
	}

	return &sentiment.DailySnapshot{
		Date:          now.UTC().Format("2006-01-02"),
		Source:        "demo",
		OverallScore:  overall,
		TotalVolume:   totalVolume,
		Categories:    g.demoCategories(topics),
		BiggestMovers: demoMovers(topics),
		Topics:        topics,
		Regions:       g.labels,
	}
}

func (g *Generator) demoMentions(name string, day int) []sentiment.Mention {
	texts, ok := g.mentions[name]
	if !ok {
		texts = []string{fmt.Sprintf("Trending discussion about %s in Texas", name)}
	}

	mentions := make([]sentiment.Mention, 0, len(texts))
	for i, text := range texts {
		regionIdx := int(math.Floor(seededRandom(seed(fmt.Sprintf("%smr%d", name, i), day)) * float64(len(g.regions))))
		region := g.regions[regionIdx].ID
		mentions = append(mentions, sentiment.Mention{
			Text:      text,
			Sentiment: genSentiment(fmt.Sprintf("%smention%d", name, i), day),
			Source:    "twitter",
			Region:    &region,
		})
	}
	return mentions
}

// demoCategories rolls active topics into the category table, weighting
// each category's sentiment by member topic volume.
func (g *Generator) demoCategories(topics []sentiment.TopicSummary) []sentiment.CategorySummary {
	byName := make(map[string]sentiment.TopicSummary, len(topics))
	for _, t := range topics {
		byName[t.Name] = t
	}

	categories := []sentiment.CategorySummary{}
	for _, cat := range g.categories {
		volume := 0
		weightedSum := 0.0
		members := []string{}
		for _, name := range cat.Topics {
			t, ok := byName[name]
			if !ok {
				continue
			}
			volume += t.Volume
			weightedSum += t.Sentiment * float64(t.Volume)
			members = append(members, name)
		}
		if volume == 0 {
			continue
		}
		categories = append(categories, sentiment.CategorySummary{
			Name:      cat.Name,
			Sentiment: aggregate.Round2(weightedSum / float64(volume)),
			Volume:    volume,
			Topics:    members,
		})
	}
	return categories
}

func demoMovers(topics []sentiment.TopicSummary) []sentiment.Mover {
	movers := []sentiment.Mover{}
	for i, t := range topics {
		if i == 5 {
			break
		}
		movers = append(movers, sentiment.Mover{
			Name:      t.Name,
			Sentiment: t.Sentiment,
			Volume:    t.Volume,
		})
	}
	return movers
}
