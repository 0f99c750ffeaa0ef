package source

import (
	"context"

	"spykes/internal/domain/trend"
	"spykes/internal/fixtures"
)

// FixtureSource serves an embedded fixture document. Fixtures carry their
// own location scores, so no default location is added.
type FixtureSource struct {
	name string
	raw  []byte
}

// NewDemo serves the demo trends and their per-state scores.
func NewDemo() *FixtureSource {
	return &FixtureSource{name: "demo", raw: fixtures.DemoTrendsYAML}
}

// NewGoogleDemo serves a Google Trends snapshot for use without an API key.
func NewGoogleDemo() *FixtureSource {
	return &FixtureSource{name: "google-demo", raw: fixtures.GoogleDemoYAML}
}

func (s *FixtureSource) Name() string { return s.name }

func (s *FixtureSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.raw, nil
}

func (s *FixtureSource) Normalize(raw []byte) (trend.Batch, error) {
	set, err := fixtures.ParseTrendSet(raw)
	if err != nil {
		return trend.Batch{}, err
	}
	return set.Batch(), nil
}
