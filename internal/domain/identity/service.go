// Package identity resolves natural keys (slugs, handles, state/LGA pairs)
// to storage identifiers.
package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a natural key has no stored row.
var ErrNotFound = errors.New("not found")

// Resolver maps natural keys to internal IDs
type Resolver interface {
	// ResolveTrend finds a trend by normalized slug
	ResolveTrend(ctx context.Context, slug string) (string, error)

	// ResolveLocation finds a location by state and LGA. A nil LGA matches
	// only locations without an LGA.
	ResolveLocation(ctx context.Context, state string, lga *string) (string, error)

	// ResolveInfluencer finds an influencer by handle
	ResolveInfluencer(ctx context.Context, handle string) (string, error)
}
