package social

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
)

type keywordMatcher struct {
	keywords []string
}

func (m *keywordMatcher) MatchTopics(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			hits = append(hits, k)
		}
	}
	return hits
}

func listingJSON(posts ...string) string {
	return fmt.Sprintf(`{"data":{"children":[%s]}}`, strings.Join(posts, ","))
}

func postJSON(id, title string, createdUTC int64) string {
	return fmt.Sprintf(`{"data":{"id":%q,"title":%q,"selftext":"","author":"u1","permalink":"/r/texas/%s","score":10,"num_comments":3,"created_utc":%d,"subreddit":"texas"}}`,
		id, title, id, createdUTC)
}

func newCollector(baseURL string, subreddits []string) *RedditCollector {
	return NewRedditCollector(RedditConfig{
		BaseURL:    baseURL,
		Subreddits: subreddits,
		FetchLimit: 25,
		Window:     24 * time.Hour,
	}, &keywordMatcher{keywords: []string{"ercot", "housing"}}, logger.New())
}

func TestFetchPostsKeepsOnlyMatchedRecentPosts(t *testing.T) {
	now := time.Now().Unix()
	old := time.Now().Add(-48 * time.Hour).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/texas/new.json", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		fmt.Fprint(w, listingJSON(
			postJSON("a1", "ERCOT issues another conservation alert", now),
			postJSON("a2", "Best tacos in town", now),
			postJSON("a3", "Housing market report", old),
		))
	}))
	defer srv.Close()

	c := newCollector(srv.URL, []string{"texas"})
	posts, err := c.FetchPosts(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].ID)
	assert.Equal(t, "reddit", posts[0].Platform)
	assert.Equal(t, "texas", posts[0].Subreddit)
	assert.Equal(t, 10, posts[0].Score)
	assert.Equal(t, 3, posts[0].NumComments)
	assert.Equal(t, "https://reddit.com/r/texas/a1", posts[0].URL)
}

func TestFetchPostsRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, listingJSON(postJSON("a1", "ERCOT update", time.Now().Unix())))
	}))
	defer srv.Close()

	c := newCollector(srv.URL, []string{"texas"})
	posts, err := c.FetchPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestFetchPostsFailedSubredditIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/r/broken/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, listingJSON(postJSON("a1", "Housing market update", time.Now().Unix())))
	}))
	defer srv.Close()

	c := newCollector(srv.URL, []string{"broken", "texas"})
	posts, err := c.FetchPosts(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].ID)
}

func TestFetchPostsHonorsContextBetweenSubreddits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingJSON(postJSON("a1", "ERCOT update", time.Now().Unix())))
	}))
	defer srv.Close()

	c := NewRedditCollector(RedditConfig{
		BaseURL:      srv.URL,
		Subreddits:   []string{"texas", "austin"},
		RequestDelay: time.Minute,
	}, &keywordMatcher{keywords: []string{"ercot"}}, logger.New())

	// The first fetch finishes well inside the deadline; the minute-long
	// delay before the second subreddit does not.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	posts, err := c.FetchPosts(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// Posts gathered before cancellation are still returned
	assert.Len(t, posts, 1)
}
