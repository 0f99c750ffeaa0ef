package influencer

import (
	"context"
	"time"
)

// Influencer is a creator profile
type Influencer struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	DisplayName  *string   `json:"display_name"`
	Bio          *string   `json:"bio"`
	PrimaryNiche *string   `json:"primary_niche"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary is an influencer list row with followers summed across platforms
type Summary struct {
	ID             string  `json:"id"`
	Handle         string  `json:"handle"`
	DisplayName    *string `json:"display_name"`
	Bio            *string `json:"bio"`
	PrimaryNiche   *string `json:"primary_niche"`
	AvatarURL      *string `json:"avatar_url"`
	TotalFollowers int64   `json:"total_followers"`
}

// Platform is an influencer's account on one network
type Platform struct {
	Platform       string  `json:"platform"`
	PlatformUserID *string `json:"platform_user_id"`
	PlatformURL    *string `json:"platform_url"`
	Followers      int64   `json:"followers"`
}

// Metric is one day of activity on one platform
type Metric struct {
	Date             time.Time `json:"date"`
	Platform         string    `json:"platform"`
	Reach            int64     `json:"reach"`
	Mentions         int64     `json:"mentions"`
	TrendImpressions int64     `json:"trend_impressions"`
	UniqueTrends     int64     `json:"unique_trends"`
}

// Profile is the full detail view of one influencer
type Profile struct {
	Influencer Influencer `json:"influencer"`
	Platforms  []Platform `json:"platforms"`
	Metrics    []Metric   `json:"metrics"`
}

// Impact is an influencer's activity on a specific trend
type Impact struct {
	Handle          string  `json:"handle"`
	DisplayName     *string `json:"display_name"`
	PrimaryNiche    *string `json:"primary_niche"`
	EstimatedReach  int64   `json:"estimated_reach"`
	EngagementScore float64 `json:"engagement_score"`
	PrimaryState    *string `json:"primary_state"`
}

// RecentMetricDays caps the metrics returned with a profile.
const RecentMetricDays = 7

// Reader defines read access to influencers
type Reader interface {
	// ListInfluencers returns every influencer by total followers, then handle
	ListInfluencers(ctx context.Context) ([]Summary, error)

	// GetProfile returns the influencer with platforms and recent metrics.
	// Returns identity.ErrNotFound for an unknown handle.
	GetProfile(ctx context.Context, handle string) (*Profile, error)

	// TrendInfluencers returns influencers active on a trend by reach, then engagement.
	// An unknown slug yields an empty list.
	TrendInfluencers(ctx context.Context, slug string) ([]Impact, error)
}

// ShortlistStore persists the shortlist
type ShortlistStore interface {
	// AddShortlistItem records the influencer; adding twice is a no-op
	AddShortlistItem(ctx context.Context, influencerID string) error

	// ListShortlist returns shortlisted influencers in list order
	ListShortlist(ctx context.Context) ([]Summary, error)
}

// Activity links an influencer to a trend when loading sample data
type Activity struct {
	TrendSlug       string
	EstimatedReach  int64
	EngagementScore float64
	State           *string
}

// Seeder loads influencer profiles
type Seeder interface {
	// SeedInfluencer creates or refreshes the profile keyed by handle
	SeedInfluencer(ctx context.Context, p Profile, activity []Activity) error
}
