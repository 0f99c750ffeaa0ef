package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const googleRSSLimit = 10

// GoogleRSSSource reads the public Google Trends daily RSS feed
type GoogleRSSSource struct {
	url   string
	state string
	fetch fetcher
}

// NewGoogleRSS requires GOOGLE_TRENDS_RSS_URL, which has a default.
func NewGoogleRSS(cfg config.SourcesConfig) (*GoogleRSSSource, error) {
	if err := requireSettings("google-rss", map[string]string{
		"GOOGLE_TRENDS_RSS_URL": cfg.GoogleRSSURL,
	}); err != nil {
		return nil, err
	}
	return &GoogleRSSSource{
		url:   cfg.GoogleRSSURL,
		state: cfg.DefaultState,
		fetch: newFetcher(cfg.HTTPTimeout, map[string]string{"Accept": "application/rss+xml, application/xml"}),
	}, nil
}

func (s *GoogleRSSSource) Name() string { return "google-rss" }

func (s *GoogleRSSSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.fetch.get(ctx, s.url)
}

func (s *GoogleRSSSource) Normalize(raw []byte) (trend.Batch, error) {
	feed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		return trend.Batch{}, fmt.Errorf("google-rss: parse feed: %w", err)
	}
	return collect(feed.Items, googleRSSLimit, s.state, normalizeGoogleRSS), nil
}

func normalizeGoogleRSS(item *gofeed.Item) (trend.Input, bool) {
	if item == nil {
		return trend.Input{}, false
	}
	keyword := strings.TrimSpace(item.Title)
	slug := prefixedSlug("google", keyword)
	if keyword == "" || slug == "" {
		return trend.Input{}, false
	}

	traffic := approxTraffic(item)
	description := "Google Trends daily search: " + keyword
	if traffic != nil {
		description = fmt.Sprintf("Google Trends daily search (%s+ searches): %s", strconv.FormatFloat(*traffic, 'f', -1, 64), keyword)
	}

	return trend.Input{
		Slug:        slug,
		Title:       keyword + " (Google)",
		Description: description,
		GlobalScore: ScoreOrDefault(traffic),
		Source:      "google",
		Kind:        "search",
	}, true
}

// approxTraffic reads the ht:approx_traffic extension, e.g. "20,000+".
func approxTraffic(item *gofeed.Item) *float64 {
	values := item.Extensions["ht"]["approx_traffic"]
	if len(values) == 0 {
		return nil
	}
	v := strings.NewReplacer(",", "", "+", "").Replace(strings.TrimSpace(values[0].Value))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
