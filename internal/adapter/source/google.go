package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"spykes/internal/config"
	"spykes/internal/domain/trend"
)

const googleLimit = 5

var regionNames = map[string]string{
	"NG": "Nigeria",
	"GH": "Ghana",
	"KE": "Kenya",
	"ZA": "South Africa",
}

// GoogleSource reads the daily trending searches for a region
type GoogleSource struct {
	host   string
	region string
	state  string
	now    func() time.Time
	fetch  fetcher
}

type googlePayload struct {
	Results []googleResult `json:"results"`
}

type googleResult struct {
	Title string `json:"title"`
}

// NewGoogle requires RAPIDAPI_KEY. The host defaults to google-trends8.p.rapidapi.com.
func NewGoogle(cfg config.SourcesConfig, now func() time.Time) (*GoogleSource, error) {
	if err := requireSettings("google", map[string]string{
		"RAPIDAPI_KEY":       cfg.RapidAPIKey,
		"GOOGLE_TRENDS_HOST": cfg.GoogleHost,
	}); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &GoogleSource{
		host:   cfg.GoogleHost,
		region: strings.ToUpper(cfg.GoogleRegion),
		state:  cfg.DefaultState,
		now:    now,
		fetch:  newFetcher(cfg.HTTPTimeout, rapidAPIHeaders(cfg.RapidAPIKey, cfg.GoogleHost)),
	}, nil
}

func (s *GoogleSource) Name() string { return "google" }

func (s *GoogleSource) Fetch(ctx context.Context) ([]byte, error) {
	q := url.Values{}
	q.Set("region_code", s.region)
	q.Set("date", s.day())
	q.Set("hl", "en-US")

	return s.fetch.get(ctx, "https://"+s.host+"/trendings?"+q.Encode())
}

func (s *GoogleSource) Normalize(raw []byte) (trend.Batch, error) {
	var payload googlePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return trend.Batch{}, fmt.Errorf("google: decode payload: %w", err)
	}

	date := s.day()
	region := s.region
	regionName, ok := regionNames[region]
	if !ok {
		regionName = region
	}

	return collect(payload.Results, googleLimit, s.state, func(r googleResult) (trend.Input, bool) {
		keyword := strings.TrimSpace(r.Title)
		slug := prefixedSlug("google", keyword)
		if keyword == "" || slug == "" {
			return trend.Input{}, false
		}
		return trend.Input{
			Slug:        slug,
			Title:       fmt.Sprintf("%s (Google %s)", keyword, region),
			Description: fmt.Sprintf("Google %s trending topic on %s: %s", regionName, date, keyword),
			GlobalScore: DefaultScore,
			Source:      "google",
			Kind:        "search",
		}, true
	}), nil
}

// day is the UTC date the trendings are requested and described for.
func (s *GoogleSource) day() string {
	return s.now().UTC().Format("2006-01-02")
}
