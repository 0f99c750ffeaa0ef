package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const youtubeLimit = 10

// YouTubeSource reads trending videos from a JSON feed
type YouTubeSource struct {
	url   string
	state string
	fetch fetcher
}

type youtubePayload struct {
	Items []youtubeVideo `json:"items"`
}

type youtubeVideo struct {
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Views       number `json:"views"`
	Score       number `json:"score"`
}

// NewYouTube requires YT_TRENDS_URL
func NewYouTube(cfg config.SourcesConfig) (*YouTubeSource, error) {
	if err := requireSettings("youtube", map[string]string{
		"YT_TRENDS_URL": cfg.YouTubeURL,
	}); err != nil {
		return nil, err
	}
	return &YouTubeSource{
		url:   cfg.YouTubeURL,
		state: cfg.DefaultState,
		fetch: newFetcher(cfg.HTTPTimeout, map[string]string{"Accept": "application/json"}),
	}, nil
}

func (s *YouTubeSource) Name() string { return "youtube" }

func (s *YouTubeSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.fetch.get(ctx, s.url)
}

func (s *YouTubeSource) Normalize(raw []byte) (trend.Batch, error) {
	var payload youtubePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return trend.Batch{}, fmt.Errorf("youtube: decode payload: %w", err)
	}
	return collect(payload.Items, youtubeLimit, s.state, normalizeYouTube), nil
}

func normalizeYouTube(v youtubeVideo) (trend.Input, bool) {
	title := strings.TrimSpace(v.Title)
	slug := prefixedSlug("youtube", title)
	if title == "" || slug == "" {
		return trend.Input{}, false
	}

	description := strings.TrimSpace(v.Description)
	if description == "" {
		description = "Trending YouTube video: " + title
	}

	return trend.Input{
		Slug:        slug,
		Title:       title + " (YouTube)",
		Description: description,
		GlobalScore: ScoreOrDefault(v.Views.value, v.Score.value),
		Source:      "youtube",
		Kind:        "video",
	}, true
}
