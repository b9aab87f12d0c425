package tagging

import (
	"regexp"
	"strings"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

// Formula selects how sentiment hit counts are turned into a score.
// A pipeline instance uses exactly one formula for all of its posts.
type Formula string

const (
	// FormulaRatio is (posHits - negHits) / (posHits + negHits), 0 when
	// both counts are 0. Used for the keyword-scoped Twitter path.
	FormulaRatio Formula = "ratio"

	// FormulaDensity is (posHits - negHits) / max(wordCount/100, 1).
	// Used for the free-text Reddit path.
	FormulaDensity Formula = "densityNormalized"
)

// Config carries the immutable lookup tables the tagger runs against.
// Tables are loaded once at process start and never mutated.
type Config struct {
	Topics   []sentiment.TopicSeed
	Regions  []sentiment.RegionSeed
	Positive []string
	Negative []string
	Formula  Formula
}

// DefaultConfig returns the standard Texas topic, region and lexicon
// tables with the given formula.
func DefaultConfig(formula Formula) Config {
	return Config{
		Topics:   sentiment.TopicSeeds,
		Regions:  sentiment.RegionSeeds,
		Positive: sentiment.PositiveWords,
		Negative: sentiment.NegativeWords,
		Formula:  formula,
	}
}

// Tagger labels a raw post with matched topics, a region and a sentiment
// score. Tag is a pure function: identical text always produces identical
// labels.
type Tagger struct {
	topics   []sentiment.TopicSeed
	regions  []sentiment.RegionSeed
	positive []*regexp.Regexp
	negative []*regexp.Regexp
	formula  Formula
}

// NewTagger creates a tagger from the given tables.
func NewTagger(cfg Config) *Tagger {
	return &Tagger{
		topics:   cfg.Topics,
		regions:  cfg.Regions,
		positive: compileWordList(cfg.Positive),
		negative: compileWordList(cfg.Negative),
		formula:  cfg.Formula,
	}
}

// compileWordList builds whole-word matchers for a sentiment lexicon.
func compileWordList(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(w))+`\b`))
	}
	return patterns
}

// Tag derives topic, region and sentiment labels for a post.
func (t *Tagger) Tag(post sentiment.RawPost) sentiment.TaggedPost {
	lower := strings.ToLower(post.FullText())

	return sentiment.TaggedPost{
		Post:      post,
		Topics:    t.matchTopics(lower),
		Region:    t.matchRegion(lower),
		Sentiment: t.score(lower),
	}
}

// MatchTopics returns the topics triggered by the given text. Collectors
// use this to scope what they keep before the pipeline runs.
func (t *Tagger) MatchTopics(text string) []string {
	return t.matchTopics(strings.ToLower(text))
}

func (t *Tagger) matchTopics(lower string) []string {
	topics := []string{}
	for _, seed := range t.topics {
		for _, trigger := range seed.Triggers {
			if strings.Contains(lower, trigger) {
				topics = append(topics, seed.Name)
				break
			}
		}
	}
	return topics
}

// matchRegion returns the first region with a place-name hit, in the
// canonical seed order. Empty string means no region detected.
func (t *Tagger) matchRegion(lower string) string {
	for _, seed := range t.regions {
		for _, place := range seed.Places {
			if strings.Contains(lower, place) {
				return seed.ID
			}
		}
	}
	return ""
}

func (t *Tagger) score(lower string) float64 {
	posHits := countHits(t.positive, lower)
	negHits := countHits(t.negative, lower)

	var score float64
	switch t.formula {
	case FormulaDensity:
		wordCount := float64(len(strings.Fields(lower)))
		divisor := wordCount / 100
		if divisor < 1 {
			divisor = 1
		}
		score = float64(posHits-negHits) / divisor
	default:
		total := posHits + negHits
		if total == 0 {
			return 0
		}
		score = float64(posHits-negHits) / float64(total)
	}

	return clamp(score)
}

func countHits(patterns []*regexp.Regexp, lower string) int {
	hits := 0
	for _, p := range patterns {
		hits += len(p.FindAllStringIndex(lower, -1))
	}
	return hits
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
