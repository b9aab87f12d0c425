package social

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
)

// issueTerms is the fixed issue-focused search query. Keyword scoping
// happens upstream, so every returned tweet counts toward total volume.
var issueTerms = []string{
	"Texas border", "Texas energy", "ERCOT", "Texas education", "Texas healthcare",
	"Texas housing", "Texas crime", "Texas abortion", "Texas gun", "Texas water",
	"Texas drought", "Texas election", "Texas property tax", "Texas transportation",
}

// TwitterConfig contains configuration for the Twitter collector.
type TwitterConfig struct {
	BearerToken string
	MaxResults  int
	Timeout     time.Duration
}

// TwitterCollector fetches recent tweets matching the Texas issue terms.
type TwitterCollector struct {
	client *twitter.Client
	config TwitterConfig
	log    *logger.Logger
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// NewTwitterCollector creates a Twitter collector. The bearer token is
// required; validation happens in config loading.
func NewTwitterCollector(config TwitterConfig, log *logger.Logger) *TwitterCollector {
	if config.MaxResults <= 0 || config.MaxResults > 100 {
		config.MaxResults = 100
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &TwitterCollector{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: config.BearerToken},
			Client:     &http.Client{Timeout: config.Timeout},
			Host:       "https://api.twitter.com",
		},
		config: config,
		log:    log.WithComponent("twitter"),
	}
}

// Platform returns the upstream platform name.
func (c *TwitterCollector) Platform() string {
	return "twitter"
}

// FetchPosts runs a recent search over the issue terms.
func (c *TwitterCollector) FetchPosts(ctx context.Context) ([]sentiment.RawPost, error) {
	query := strings.Join(issueTerms, " OR ")

	opts := twitter.TweetRecentSearchOpts{
		MaxResults: c.config.MaxResults,
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldAuthorID,
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
		},
	}

	resp, err := c.client.TweetRecentSearch(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("twitter recent search: %w", err)
	}

	var posts []sentiment.RawPost
	if resp.Raw == nil {
		return posts, nil
	}

	for _, tw := range resp.Raw.Tweets {
		if tw == nil {
			continue
		}

		createdAt, _ := time.Parse(time.RFC3339, tw.CreatedAt)

		score := 0
		comments := 0
		if tw.PublicMetrics != nil {
			score = tw.PublicMetrics.Likes + tw.PublicMetrics.Retweets + tw.PublicMetrics.Quotes
			comments = tw.PublicMetrics.Replies
		}

		posts = append(posts, sentiment.RawPost{
			ID:          tw.ID,
			Text:        tw.Text,
			Author:      tw.AuthorID,
			Score:       score,
			NumComments: comments,
			CreatedAt:   createdAt,
			Platform:    "twitter",
		})
	}

	c.log.WithField("tweets", len(posts)).Info("twitter collection complete")
	return posts, nil
}
