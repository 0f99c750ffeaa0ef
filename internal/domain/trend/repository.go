package trend

import (
	"context"
	"time"
)

// DefaultListLimit caps the trends list.
const DefaultListLimit = 20

// Reader defines read access to persisted trends
type Reader interface {
	// ListTrends returns up to limit trends ordered by global score, highest first
	ListTrends(ctx context.Context, limit int) ([]Trend, error)

	// GetTrendDetail returns the trend and its location scores, highest first.
	// Returns identity.ErrNotFound for an unknown slug.
	GetTrendDetail(ctx context.Context, slug string) (*Detail, error)
}

// Writer defines the write operations the upsert engine relies on
type Writer interface {
	// UpsertTrend inserts the trend or refreshes every field except first_seen_at
	UpsertTrend(ctx context.Context, in Input, seenAt time.Time) error

	// ReplaceTrendLocation drops any score for the pair and records the new one
	ReplaceTrendLocation(ctx context.Context, trendID, locationID string, score float64) error
}

// LocationSeeder loads reference locations
type LocationSeeder interface {
	// SeedLocations inserts locations that do not exist yet and returns how many were added
	SeedLocations(ctx context.Context, locations []Location) (int, error)
}
