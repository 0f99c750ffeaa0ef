// Package seed loads the bundled reference and sample data into a store.
package seed

import (
	"context"
	"fmt"
	"time"

	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/fixtures"
)

// Locations inserts the reference states and LGAs, returning how many were new.
func Locations(ctx context.Context, store trend.LocationSeeder) (int, error) {
	locations, err := fixtures.Locations()
	if err != nil {
		return 0, err
	}
	added, err := store.SeedLocations(ctx, locations)
	if err != nil {
		return added, fmt.Errorf("seed locations: %w", err)
	}
	return added, nil
}

// Influencers loads the sample creators. Metric dates count back from day.
// Trend activity only links to trends that already exist, so seed trends first.
func Influencers(ctx context.Context, store influencer.Seeder, day time.Time) (int, error) {
	list, err := fixtures.Influencers()
	if err != nil {
		return 0, err
	}
	for i, f := range list {
		if err := store.SeedInfluencer(ctx, f.Profile(day), f.Activities()); err != nil {
			return i, fmt.Errorf("seed influencer %q: %w", f.Handle, err)
		}
	}
	return len(list), nil
}
