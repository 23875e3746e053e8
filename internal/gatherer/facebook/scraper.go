// Package facebook scans Facebook groups through an external scraping
// collaborator. Crawling itself is out of scope here: the Fetcher contract
// is fixed and everything behind it is someone else's problem.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/pipeline"
)

// FreshnessWindow is how far back a group post may be dated and still get
// ingested. Older posts are silently skipped.
const FreshnessWindow = 24 * time.Hour

// Post is one scraped group post.
type Post struct {
	ID       string    `json:"post_id"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"posted_at"`
}

// Fetcher retrieves recent posts for a group.
type Fetcher interface {
	GroupPosts(ctx context.Context, groupID string) ([]Post, error)
}

// HTTPFetcher talks to the scraping service:
// GET <base>/groups/<id>/posts -> {"posts":[{post_id,text,posted_at}]}.
type HTTPFetcher struct {
	baseURL string
	http    *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPFetcher) GroupPosts(ctx context.Context, groupID string) ([]Post, error) {
	url := fmt.Sprintf("%s/groups/%s/posts", f.baseURL, groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, oops.With("group_id", groupID).Wrap(err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, oops.With("group_id", groupID).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("group_id", groupID).Errorf("scraper returned %d", resp.StatusCode)
	}

	var body struct {
		Posts []Post `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, oops.With("group_id", groupID, "context", "decoding posts").Wrap(err)
	}
	return body.Posts, nil
}

// Gatherer turns scraped group posts into ingestion submissions.
type Gatherer struct {
	fetcher   Fetcher
	client    *pipeline.Client
	freshness time.Duration
	logger    *slog.Logger
}

func NewGatherer(fetcher Fetcher, client *pipeline.Client) *Gatherer {
	return &Gatherer{
		fetcher:   fetcher,
		client:    client,
		freshness: FreshnessWindow,
		logger:    slog.Default(),
	}
}

func (g *Gatherer) SetLogger(logger *slog.Logger) {
	g.logger = logger
}

// ScanGroup fetches one group and submits every fresh, non-empty post.
// Failures are isolated per post; a fetch failure skips the group for this
// cycle. Returns the number of newly accepted postings.
func (g *Gatherer) ScanGroup(ctx context.Context, groupURL string) int {
	groupID := GroupID(groupURL)

	posts, err := g.fetcher.GroupPosts(ctx, groupID)
	if err != nil {
		g.logger.Error("Failed to fetch group posts", "group_id", groupID, "error", err)
		return 0
	}

	accepted := 0
	for _, post := range posts {
		if strings.TrimSpace(post.Text) == "" {
			continue
		}
		if !post.PostedAt.IsZero() && time.Since(post.PostedAt) > g.freshness {
			continue
		}

		link := groupURL
		if post.ID != "" {
			link = "https://facebook.com/" + post.ID
		}

		outcome := g.client.Submit(ctx, "FB: "+groupID, post.Text, link, domain.SourceTypeFacebook)
		g.client.LogOutcome(outcome, groupID)
		if outcome.Status == pipeline.StatusAccepted {
			accepted++
		}
	}

	if accepted > 0 {
		g.logger.Info("Facebook group scanned", "group_id", groupID, "accepted", accepted)
	}
	return accepted
}

// GroupID extracts the trailing group identifier from a URL:
// "https://facebook.com/groups/golangjobs?ref=x" -> "golangjobs".
func GroupID(url string) string {
	url = strings.TrimSpace(url)
	if j := strings.Index(url, "?"); j >= 0 {
		url = url[:j]
	}
	url = strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		url = url[i+1:]
	}
	return url
}
