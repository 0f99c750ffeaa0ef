package trend

import (
	"strings"
	"time"
)

// Trend is a persisted trending topic keyed by its slug
type Trend struct {
	ID                string    `json:"id"`
	Slug              string    `json:"slug"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	GlobalScore       float64   `json:"global_score"`
	Source            *string   `json:"source,omitempty"`
	Kind              *string   `json:"kind,omitempty"`
	NormalizedKeyword string    `json:"-"`
	FirstSeenAt       time.Time `json:"first_seen_at"`
	LastSeenAt        time.Time `json:"last_seen_at"`
}

// Input is a normalized trend record ready to be upserted
type Input struct {
	Slug        string
	Title       string
	Description string
	GlobalScore float64
	Source      string
	Kind        string
}

// LocationInput is a normalized per-location score for a trend
type LocationInput struct {
	TrendSlug string
	State     string
	LGA       *string
	Score     float64
}

// Batch is the output of normalizing one source payload
type Batch struct {
	Trends    []Input
	Locations []LocationInput
}

// Location is a reference geographic unit
type Location struct {
	ID    string  `json:"id,omitempty"`
	State string  `json:"state" yaml:"state"`
	LGA   *string `json:"lga" yaml:"lga"`
}

// LocationScore is a trend's score in one location
type LocationScore struct {
	State string  `json:"state"`
	LGA   *string `json:"lga"`
	Score float64 `json:"score"`
}

// Detail is a single trend with its per-location breakdown
type Detail struct {
	Trend     Trend           `json:"trend"`
	Locations []LocationScore `json:"locations"`
}

// NormalizeSlug is the form under which slugs are stored and resolved.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// SameLGA reports whether two optional LGAs identify the same location.
// A nil LGA only ever equals another nil LGA.
func SameLGA(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
