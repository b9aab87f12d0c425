package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
)

// TopicMatcher reports which monitored topics a text triggers. The Reddit
// collector keeps only posts with at least one hit, so the served total
// volume counts keyword-scoped posts.
type TopicMatcher interface {
	MatchTopics(text string) []string
}

// RedditConfig contains configuration for the Reddit collector.
type RedditConfig struct {
	BaseURL      string
	Subreddits   []string
	FetchLimit   int
	Window       time.Duration
	RequestDelay time.Duration
	Timeout      time.Duration
}

// RedditCollector fetches recent posts from the public Reddit JSON API.
// No auth is required; old.reddit.com is more permissive about it.
type RedditCollector struct {
	httpClient *http.Client
	config     RedditConfig
	matcher    TopicMatcher
	log        *logger.Logger
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
}

// NewRedditCollector creates a Reddit collector.
func NewRedditCollector(config RedditConfig, matcher TopicMatcher, log *logger.Logger) *RedditCollector {
	if config.BaseURL == "" {
		config.BaseURL = "https://old.reddit.com"
	}
	if config.FetchLimit <= 0 {
		config.FetchLimit = 100
	}
	if config.Window <= 0 {
		config.Window = 24 * time.Hour
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &RedditCollector{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		matcher:    matcher,
		log:        log.WithComponent("reddit"),
	}
}

// Platform returns the upstream platform name.
func (c *RedditCollector) Platform() string {
	return "reddit"
}

// FetchPosts walks the monitored subreddits sequentially with a
// cooperative delay between requests to respect upstream rate limits.
// A subreddit that keeps failing is skipped, not fatal.
func (c *RedditCollector) FetchPosts(ctx context.Context) ([]sentiment.RawPost, error) {
	var collected []sentiment.RawPost
	cutoff := time.Now().Add(-c.config.Window)

	for i, subreddit := range c.config.Subreddits {
		posts, err := c.fetchSubreddit(ctx, subreddit)
		if err != nil {
			c.log.WithError(err).WithField("subreddit", subreddit).Warn("subreddit fetch failed")
		}

		kept := 0
		for _, p := range posts {
			created := time.Unix(int64(p.CreatedUTC), 0)
			if created.Before(cutoff) {
				continue
			}

			raw := sentiment.RawPost{
				ID:          p.ID,
				Title:       p.Title,
				Text:        p.SelfText,
				Author:      p.Author,
				URL:         "https://reddit.com" + p.Permalink,
				Subreddit:   p.Subreddit,
				Score:       p.Score,
				NumComments: p.NumComments,
				CreatedAt:   created,
				Platform:    "reddit",
			}
			if len(c.matcher.MatchTopics(raw.FullText())) == 0 {
				continue
			}

			collected = append(collected, raw)
			kept++
		}
		c.log.WithField("subreddit", subreddit).WithField("kept", kept).Debug("subreddit collected")

		if i < len(c.config.Subreddits)-1 && c.config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return collected, ctx.Err()
			case <-time.After(c.config.RequestDelay):
			}
		}
	}

	c.log.WithField("posts", len(collected)).Info("reddit collection complete")
	return collected, nil
}

// fetchSubreddit retrieves one subreddit's newest posts, retrying
// transient failures with exponential backoff.
func (c *RedditCollector) fetchSubreddit(ctx context.Context, subreddit string) ([]redditPost, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d&raw_json=1", c.config.BaseURL, subreddit, c.config.FetchLimit)

	var posts []redditPost
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("reddit API returned status %d", resp.StatusCode)
		}

		var listing redditListing
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			return fmt.Errorf("failed to decode reddit response: %w", err)
		}

		posts = posts[:0]
		for _, child := range listing.Data.Children {
			posts = append(posts, child.Data)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, fmt.Errorf("fetching r/%s: %w", subreddit, err)
	}

	return posts, nil
}
