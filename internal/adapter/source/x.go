package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const xLimit = 20

// XSource reads trending topics for a place from a RapidAPI X endpoint
type XSource struct {
	url   string
	state string
	fetch fetcher
}

// The endpoint mirrors the trends/place response: one entry per requested place.
type xPayload []struct {
	Trends []xTrend `json:"trends"`
}

type xTrend struct {
	Name        string `json:"name"`
	TweetVolume number `json:"tweet_volume"`
}

// NewX requires X_TRENDS_HOST, X_TRENDS_PATH and RAPIDAPI_KEY.
func NewX(cfg config.SourcesConfig) (*XSource, error) {
	if err := requireSettings("x", map[string]string{
		"X_TRENDS_HOST": cfg.XHost,
		"X_TRENDS_PATH": cfg.XPath,
		"RAPIDAPI_KEY":  cfg.RapidAPIKey,
	}); err != nil {
		return nil, err
	}
	return &XSource{
		url:   "https://" + cfg.XHost + cfg.XPath,
		state: cfg.DefaultState,
		fetch: newFetcher(cfg.HTTPTimeout, rapidAPIHeaders(cfg.RapidAPIKey, cfg.XHost)),
	}, nil
}

func (s *XSource) Name() string { return "x" }

func (s *XSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.fetch.get(ctx, s.url)
}

func (s *XSource) Normalize(raw []byte) (trend.Batch, error) {
	var payload xPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return trend.Batch{}, fmt.Errorf("x: decode payload: %w", err)
	}
	var items []xTrend
	if len(payload) > 0 {
		items = payload[0].Trends
	}
	return collect(items, xLimit, s.state, normalizeX), nil
}

func normalizeX(t xTrend) (trend.Input, bool) {
	name := strings.TrimSpace(t.Name)
	slug := prefixedSlug("x", name)
	if name == "" || slug == "" {
		return trend.Input{}, false
	}
	return trend.Input{
		Slug:        slug,
		Title:       name + " (X)",
		Description: "Trending topic on X: " + name,
		GlobalScore: ScoreOrDefault(t.TweetVolume.value),
		Source:      "x",
		Kind:        "topic",
	}, true
}
