package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const redditLimit = 10

// RedditSource reads a subreddit listing
type RedditSource struct {
	url   string
	state string
	fetch fetcher
}

type redditListing struct {
	Data struct {
		Children []redditChild `json:"children"`
	} `json:"data"`
}

type redditChild struct {
	Data redditPost `json:"data"`
}

type redditPost struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Selftext  string `json:"selftext"`
	Score     number `json:"score"`
	Ups       number `json:"ups"`
}

// NewReddit requires REDDIT_TRENDS_URL, e.g. https://www.reddit.com/r/Nigeria/hot.json
func NewReddit(cfg config.SourcesConfig) (*RedditSource, error) {
	if err := requireSettings("reddit", map[string]string{
		"REDDIT_TRENDS_URL": cfg.RedditURL,
	}); err != nil {
		return nil, err
	}
	return &RedditSource{
		url:   cfg.RedditURL,
		state: cfg.DefaultState,
		fetch: newFetcher(cfg.HTTPTimeout, map[string]string{"Accept": "application/json"}),
	}, nil
}

func (s *RedditSource) Name() string { return "reddit" }

func (s *RedditSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.fetch.get(ctx, s.url)
}

func (s *RedditSource) Normalize(raw []byte) (trend.Batch, error) {
	var listing redditListing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return trend.Batch{}, fmt.Errorf("reddit: decode payload: %w", err)
	}
	return collect(listing.Data.Children, redditLimit, s.state, normalizeReddit), nil
}

func normalizeReddit(c redditChild) (trend.Input, bool) {
	post := c.Data
	title := strings.TrimSpace(post.Title)
	slug := prefixedSlug("reddit", title)
	if title == "" || slug == "" {
		return trend.Input{}, false
	}

	subreddit := strings.TrimSpace(post.Subreddit)
	if subreddit == "" {
		subreddit = "reddit"
	}

	description := strings.TrimSpace(post.Selftext)
	if description == "" {
		description = fmt.Sprintf("Trending Reddit post in r/%s: %s", subreddit, title)
	}

	return trend.Input{
		Slug:        slug,
		Title:       fmt.Sprintf("%s (r/%s)", title, subreddit),
		Description: description,
		GlobalScore: ScoreOrDefault(post.Score.value, post.Ups.value),
		Source:      "reddit",
		Kind:        "post",
	}, true
}
