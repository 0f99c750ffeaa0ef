// Package fixtures holds the embedded demo and reference data.
package fixtures

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

var (
	//go:embed demo.yaml
	DemoTrendsYAML []byte

	//go:embed google_demo.yaml
	GoogleDemoYAML []byte

	//go:embed locations.yaml
	locationsYAML []byte

	//go:embed influencers.yaml
	influencersYAML []byte
)

// TrendSet is a fixture file of trends and their location scores
type TrendSet struct {
	Trends    []TrendFixture         `yaml:"trends"`
	Locations []TrendLocationFixture `yaml:"locations"`
}

type TrendFixture struct {
	Slug        string  `yaml:"slug"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Score       float64 `yaml:"score"`
	Source      string  `yaml:"source"`
	Kind        string  `yaml:"kind"`
}

type TrendLocationFixture struct {
	Trend string  `yaml:"trend"`
	State string  `yaml:"state"`
	LGA   *string `yaml:"lga"`
	Score float64 `yaml:"score"`
}

// ParseTrendSet decodes a trend fixture document.
func ParseTrendSet(raw []byte) (TrendSet, error) {
	var set TrendSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return TrendSet{}, fmt.Errorf("error decoding trend fixtures: %w", err)
	}
	return set, nil
}

// Batch converts the set into upsert inputs, keeping file order.
func (s TrendSet) Batch() trend.Batch {
	batch := trend.Batch{
		Trends:    make([]trend.Input, 0, len(s.Trends)),
		Locations: make([]trend.LocationInput, 0, len(s.Locations)),
	}
	for _, t := range s.Trends {
		batch.Trends = append(batch.Trends, trend.Input{
			Slug:        t.Slug,
			Title:       t.Title,
			Description: t.Description,
			GlobalScore: t.Score,
			Source:      t.Source,
			Kind:        t.Kind,
		})
	}
	for _, l := range s.Locations {
		batch.Locations = append(batch.Locations, trend.LocationInput{
			TrendSlug: l.Trend,
			State:     l.State,
			LGA:       l.LGA,
			Score:     l.Score,
		})
	}
	return batch
}

// Locations returns the reference location list.
func Locations() ([]trend.Location, error) {
	var doc struct {
		Locations []trend.Location `yaml:"locations"`
	}
	if err := yaml.Unmarshal(locationsYAML, &doc); err != nil {
		return nil, fmt.Errorf("error decoding locations: %w", err)
	}
	return doc.Locations, nil
}

// InfluencerFixture is one sample creator with platforms, metrics and trend activity
type InfluencerFixture struct {
	Handle       string  `yaml:"handle"`
	DisplayName  *string `yaml:"display_name"`
	Bio          *string `yaml:"bio"`
	PrimaryNiche *string `yaml:"primary_niche"`
	AvatarURL    *string `yaml:"avatar_url"`
	Platforms    []struct {
		Platform       string  `yaml:"platform"`
		PlatformUserID *string `yaml:"platform_user_id"`
		PlatformURL    *string `yaml:"platform_url"`
		Followers      int64   `yaml:"followers"`
	} `yaml:"platforms"`
	Metrics []struct {
		DaysAgo          int    `yaml:"days_ago"`
		Platform         string `yaml:"platform"`
		Reach            int64  `yaml:"reach"`
		Mentions         int64  `yaml:"mentions"`
		TrendImpressions int64  `yaml:"trend_impressions"`
		UniqueTrends     int64  `yaml:"unique_trends"`
	} `yaml:"metrics"`
	Activity []ActivityFixture `yaml:"activity"`
}

// ActivityFixture links an influencer to a trend
type ActivityFixture struct {
	Trend           string  `yaml:"trend"`
	EstimatedReach  int64   `yaml:"estimated_reach"`
	EngagementScore float64 `yaml:"engagement_score"`
	State           *string `yaml:"state"`
}

// Influencers returns the sample creators.
func Influencers() ([]InfluencerFixture, error) {
	var doc struct {
		Influencers []InfluencerFixture `yaml:"influencers"`
	}
	if err := yaml.Unmarshal(influencersYAML, &doc); err != nil {
		return nil, fmt.Errorf("error decoding influencers: %w", err)
	}
	return doc.Influencers, nil
}

// Profile converts the fixture into domain values. Metric dates count back from day.
func (f InfluencerFixture) Profile(day time.Time) influencer.Profile {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	p := influencer.Profile{
		Influencer: influencer.Influencer{
			Handle:       f.Handle,
			DisplayName:  f.DisplayName,
			Bio:          f.Bio,
			PrimaryNiche: f.PrimaryNiche,
			AvatarURL:    f.AvatarURL,
			CreatedAt:    day,
		},
		Platforms: make([]influencer.Platform, 0, len(f.Platforms)),
		Metrics:   make([]influencer.Metric, 0, len(f.Metrics)),
	}
	for _, pl := range f.Platforms {
		p.Platforms = append(p.Platforms, influencer.Platform{
			Platform:       pl.Platform,
			PlatformUserID: pl.PlatformUserID,
			PlatformURL:    pl.PlatformURL,
			Followers:      pl.Followers,
		})
	}
	for _, m := range f.Metrics {
		p.Metrics = append(p.Metrics, influencer.Metric{
			Date:             day.AddDate(0, 0, -m.DaysAgo),
			Platform:         m.Platform,
			Reach:            m.Reach,
			Mentions:         m.Mentions,
			TrendImpressions: m.TrendImpressions,
			UniqueTrends:     m.UniqueTrends,
		})
	}
	return p
}

// Activities converts the fixture's trend links.
func (f InfluencerFixture) Activities() []influencer.Activity {
	out := make([]influencer.Activity, 0, len(f.Activity))
	for _, a := range f.Activity {
		out = append(out, influencer.Activity{
			TrendSlug:       a.Trend,
			EstimatedReach:  a.EstimatedReach,
			EngagementScore: a.EngagementScore,
			State:           a.State,
		})
	}
	return out
}
