package aggregate

import (
	"math"
	"sort"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

const maxMentions = 6

// Result holds the topic and category rollups for one batch of posts.
type Result struct {
	Topics     []sentiment.TopicSummary
	Categories []sentiment.CategorySummary
}

// Aggregator folds tagged posts into topic and category summaries. Given
// the same input in the same order the output is identical, down to
// rounding and ordering.
type Aggregator struct {
	categories []sentiment.Category
}

// NewAggregator creates an aggregator over the given ordered category table.
func NewAggregator(categories []sentiment.Category) *Aggregator {
	return &Aggregator{categories: categories}
}

type regionAcc struct {
	sentiments []float64
	volume     int
}

type topicAcc struct {
	name        string
	sentiments  []float64
	volume      int
	mentions    []sentiment.Mention
	regionOrder []string
	regions     map[string]*regionAcc
}

type categoryAcc struct {
	name       string
	sentiments []float64
	volume     int
	topicSeen  map[string]bool
	topics     []string
}

// Aggregate builds the per-topic and per-category rollups.
func (a *Aggregator) Aggregate(posts []sentiment.TaggedPost) Result {
	var topicOrder []string
	topicMap := map[string]*topicAcc{}

	catAccs := make([]*categoryAcc, len(a.categories))
	for i, c := range a.categories {
		catAccs[i] = &categoryAcc{name: c.Name, topicSeen: map[string]bool{}}
	}

	for _, post := range posts {
		for _, topicName := range post.Topics {
			acc, ok := topicMap[topicName]
			if !ok {
				acc = &topicAcc{name: topicName, regions: map[string]*regionAcc{}}
				topicMap[topicName] = acc
				topicOrder = append(topicOrder, topicName)
			}

			acc.sentiments = append(acc.sentiments, post.Sentiment)
			acc.volume++
			if len(acc.mentions) < maxMentions {
				acc.mentions = append(acc.mentions, mentionFor(post))
			}

			// Region breakdown skips the statewide (no region) bucket.
			if post.Region != "" {
				r, ok := acc.regions[post.Region]
				if !ok {
					r = &regionAcc{}
					acc.regions[post.Region] = r
					acc.regionOrder = append(acc.regionOrder, post.Region)
				}
				r.sentiments = append(r.sentiments, post.Sentiment)
				r.volume++
			}
		}

		if idx := a.categoryFor(post.Topics); idx >= 0 {
			cat := catAccs[idx]
			cat.sentiments = append(cat.sentiments, post.Sentiment)
			cat.volume++
			for _, topicName := range post.Topics {
				if !cat.topicSeen[topicName] {
					cat.topicSeen[topicName] = true
					cat.topics = append(cat.topics, topicName)
				}
			}
		}
	}

	topics := make([]sentiment.TopicSummary, 0, len(topicOrder))
	for _, name := range topicOrder {
		topics = append(topics, finalizeTopic(topicMap[name]))
	}

	// Volume descending; ties keep first-seen order.
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Volume > topics[j].Volume
	})

	categories := make([]sentiment.CategorySummary, 0, len(catAccs))
	for _, cat := range catAccs {
		if cat.volume == 0 {
			continue
		}
		topicList := cat.topics
		if topicList == nil {
			topicList = []string{}
		}
		categories = append(categories, sentiment.CategorySummary{
			Name:      cat.name,
			Sentiment: Round2(mean(cat.sentiments)),
			Volume:    cat.volume,
			Topics:    topicList,
		})
	}

	return Result{Topics: topics, Categories: categories}
}

// categoryFor returns the index of the first category whose topic set
// intersects the given matched topics, or -1 when none do.
func (a *Aggregator) categoryFor(matched []string) int {
	for i, c := range a.categories {
		for _, want := range c.Topics {
			for _, have := range matched {
				if have == want {
					return i
				}
			}
		}
	}
	return -1
}

func finalizeTopic(acc *topicAcc) sentiment.TopicSummary {
	var byRegion map[string]sentiment.RegionStat
	if len(acc.regionOrder) > 0 {
		byRegion = make(map[string]sentiment.RegionStat, len(acc.regionOrder))
		for _, id := range acc.regionOrder {
			r := acc.regions[id]
			byRegion[id] = sentiment.RegionStat{
				Sentiment: Round2(mean(r.sentiments)),
				Volume:    r.volume,
			}
		}
	}

	mentions := acc.mentions
	if mentions == nil {
		mentions = []sentiment.Mention{}
	}

	return sentiment.TopicSummary{
		Name:        acc.name,
		Sentiment:   Round2(mean(acc.sentiments)),
		Volume:      acc.volume,
		ByRegion:    byRegion,
		TopMentions: mentions,
	}
}

func mentionFor(post sentiment.TaggedPost) sentiment.Mention {
	var region *string
	if post.Region != "" {
		r := post.Region
		region = &r
	}
	return sentiment.Mention{
		Text:      post.Post.MentionText(),
		Sentiment: post.Sentiment,
		Source:    post.Post.Platform,
		Region:    region,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round2 rounds to two decimal places, the precision every published
// sentiment figure uses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
