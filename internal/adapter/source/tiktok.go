package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const tiktokLimit = 20

// TikTokSource reads trending hashtags from a RapidAPI TikTok endpoint
type TikTokSource struct {
	url   string
	state string
	fetch fetcher
}

type tiktokPayload struct {
	Data []tiktokHashtag `json:"data"`
}

type tiktokHashtag struct {
	HashtagName string `json:"hashtag_name"`
	VideoViews  number `json:"video_views"`
}

// NewTikTok requires TIKTOK_TRENDS_HOST and RAPIDAPI_KEY.
func NewTikTok(cfg config.SourcesConfig) (*TikTokSource, error) {
	if err := requireSettings("tiktok", map[string]string{
		"TIKTOK_TRENDS_HOST": cfg.TikTokHost,
		"RAPIDAPI_KEY":       cfg.RapidAPIKey,
	}); err != nil {
		return nil, err
	}
	return &TikTokSource{
		url:   "https://" + cfg.TikTokHost + cfg.TikTokPath,
		state: cfg.DefaultState,
		fetch: newFetcher(cfg.HTTPTimeout, rapidAPIHeaders(cfg.RapidAPIKey, cfg.TikTokHost)),
	}, nil
}

func (s *TikTokSource) Name() string { return "tiktok" }

func (s *TikTokSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.fetch.get(ctx, s.url)
}

func (s *TikTokSource) Normalize(raw []byte) (trend.Batch, error) {
	var payload tiktokPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return trend.Batch{}, fmt.Errorf("tiktok: decode payload: %w", err)
	}
	return collect(payload.Data, tiktokLimit, s.state, normalizeTikTok), nil
}

func normalizeTikTok(h tiktokHashtag) (trend.Input, bool) {
	tag := strings.TrimSpace(h.HashtagName)
	slug := prefixedSlug("tiktok", strings.TrimLeft(tag, "#"))
	if tag == "" || slug == "" {
		return trend.Input{}, false
	}
	return trend.Input{
		Slug:        slug,
		Title:       tag + " (TikTok)",
		Description: "Trending TikTok hashtag: " + tag,
		GlobalScore: ScoreOrDefault(h.VideoViews.value),
		Source:      "tiktok",
		Kind:        "hashtag",
	}, true
}
