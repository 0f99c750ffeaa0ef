package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

// contractStore is everything both store implementations provide.
type contractStore interface {
	identity.Resolver
	trend.Reader
	trend.Writer
	trend.LocationSeeder
	influencer.Reader
	influencer.ShortlistStore
	influencer.Seeder
}

func strPtr(s string) *string { return &s }

// runStoreContract exercises behaviour both stores must share. newStore must
// return an empty store seeded with nothing.
func runStoreContract(t *testing.T, newStore func(t *testing.T) contractStore) {
	ctx := context.Background()
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("upsert keeps first seen and refreshes the rest", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.UpsertTrend(ctx, trend.Input{
			Slug: "demo-ingestion", Title: "Demo", Description: "first", GlobalScore: 72, Source: "demo",
		}, t0))
		require.NoError(t, s.UpsertTrend(ctx, trend.Input{
			Slug: "demo-ingestion", Title: "Demo v2", Description: "second", GlobalScore: 90, Source: "tiktok", Kind: "hashtag",
		}, t0.Add(time.Hour)))

		detail, err := s.GetTrendDetail(ctx, "demo-ingestion")
		require.NoError(t, err)
		assert.Equal(t, "Demo v2", detail.Trend.Title)
		assert.Equal(t, "second", detail.Trend.Description)
		assert.Equal(t, 90.0, detail.Trend.GlobalScore)
		assert.True(t, detail.Trend.FirstSeenAt.Equal(t0), "first_seen_at = %v", detail.Trend.FirstSeenAt)
		assert.True(t, detail.Trend.LastSeenAt.Equal(t0.Add(time.Hour)))
		require.NotNil(t, detail.Trend.Source)
		assert.Equal(t, "tiktok", *detail.Trend.Source)
		require.NotNil(t, detail.Trend.Kind)
		assert.Equal(t, "hashtag", *detail.Trend.Kind)
		assert.Equal(t, "demo-ingestion", detail.Trend.NormalizedKeyword)

		list, err := s.ListTrends(ctx, 20)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("slugs are matched case-insensitively", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.UpsertTrend(ctx, trend.Input{Slug: "X-Naija", Title: "Naija"}, t0))

		id, err := s.ResolveTrend(ctx, "x-naija")
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("list orders by score and caps at limit", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 25; i++ {
			require.NoError(t, s.UpsertTrend(ctx, trend.Input{
				Slug: fmt.Sprintf("trend-%02d", i), Title: "t", GlobalScore: float64(i),
			}, t0))
		}

		list, err := s.ListTrends(ctx, trend.DefaultListLimit)
		require.NoError(t, err)
		require.Len(t, list, 20)
		assert.Equal(t, "trend-24", list[0].Slug)
		assert.Equal(t, "trend-05", list[19].Slug)
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1].GlobalScore, list[i].GlobalScore)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		s := newStore(t)
		list, err := s.ListTrends(ctx, 20)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("location resolution treats null lga as its own key", func(t *testing.T) {
		s := newStore(t)
		added, err := s.SeedLocations(ctx, []trend.Location{
			{State: "Lagos", LGA: strPtr("Ikeja")},
			{State: "Lagos"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = s.SeedLocations(ctx, []trend.Location{{State: "Lagos"}})
		require.NoError(t, err)
		assert.Equal(t, 0, added)

		stateID, err := s.ResolveLocation(ctx, "Lagos", nil)
		require.NoError(t, err)
		ikejaID, err := s.ResolveLocation(ctx, "Lagos", strPtr("Ikeja"))
		require.NoError(t, err)
		assert.NotEqual(t, stateID, ikejaID)

		_, err = s.ResolveLocation(ctx, "Lagos", strPtr("Surulere"))
		assert.ErrorIs(t, err, identity.ErrNotFound)
		_, err = s.ResolveLocation(ctx, "Kano", nil)
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	t.Run("replacing a trend location keeps one row with the latest score", func(t *testing.T) {
		s := newStore(t)
		_, err := s.SeedLocations(ctx, []trend.Location{{State: "Lagos"}, {State: "Abuja"}})
		require.NoError(t, err)
		require.NoError(t, s.UpsertTrend(ctx, trend.Input{Slug: "fuel-queue-demo", Title: "Fuel"}, t0))

		trendID, err := s.ResolveTrend(ctx, "fuel-queue-demo")
		require.NoError(t, err)
		lagos, err := s.ResolveLocation(ctx, "Lagos", nil)
		require.NoError(t, err)
		abuja, err := s.ResolveLocation(ctx, "Abuja", nil)
		require.NoError(t, err)

		require.NoError(t, s.ReplaceTrendLocation(ctx, trendID, lagos, 55))
		require.NoError(t, s.ReplaceTrendLocation(ctx, trendID, abuja, 47))
		require.NoError(t, s.ReplaceTrendLocation(ctx, trendID, lagos, 58))

		detail, err := s.GetTrendDetail(ctx, "fuel-queue-demo")
		require.NoError(t, err)
		require.Len(t, detail.Locations, 2)
		assert.Equal(t, "Lagos", detail.Locations[0].State)
		assert.Equal(t, 58.0, detail.Locations[0].Score)
		assert.Nil(t, detail.Locations[0].LGA)
		assert.Equal(t, "Abuja", detail.Locations[1].State)
		assert.Equal(t, 47.0, detail.Locations[1].Score)
	})

	t.Run("unknown trend detail is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetTrendDetail(ctx, "missing")
		assert.ErrorIs(t, err, identity.ErrNotFound)
		_, err = s.ResolveTrend(ctx, "missing")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	seedInfluencers := func(t *testing.T, s contractStore) {
		t.Helper()
		_, err := s.SeedLocations(ctx, []trend.Location{{State: "Lagos"}, {State: "Abuja"}})
		require.NoError(t, err)
		require.NoError(t, s.UpsertTrend(ctx, trend.Input{Slug: "crypto-chats-demo", Title: "Crypto"}, t0))

		day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		metrics := make([]influencer.Metric, 0, 9)
		for i := 0; i < 9; i++ {
			metrics = append(metrics, influencer.Metric{Date: day.AddDate(0, 0, -i), Platform: "x", Reach: int64(100 * i)})
		}
		metrics = append(metrics, influencer.Metric{Date: day, Platform: "instagram", Reach: 5})

		require.NoError(t, s.SeedInfluencer(ctx, influencer.Profile{
			Influencer: influencer.Influencer{Handle: "alpha", DisplayName: strPtr("Alpha")},
			Platforms: []influencer.Platform{
				{Platform: "x", Followers: 100},
				{Platform: "instagram", Followers: 100},
				{Platform: "tiktok", Followers: 300},
			},
			Metrics: metrics,
		}, []influencer.Activity{
			{TrendSlug: "crypto-chats-demo", EstimatedReach: 500, EngagementScore: 2, State: strPtr("Lagos")},
		}))
		require.NoError(t, s.SeedInfluencer(ctx, influencer.Profile{
			Influencer: influencer.Influencer{Handle: "bravo"},
			Platforms:  []influencer.Platform{{Platform: "x", Followers: 500}},
		}, []influencer.Activity{
			{TrendSlug: "crypto-chats-demo", EstimatedReach: 500, EngagementScore: 7},
			{TrendSlug: "not-ingested-yet", EstimatedReach: 900, EngagementScore: 9},
		}))
		require.NoError(t, s.SeedInfluencer(ctx, influencer.Profile{
			Influencer: influencer.Influencer{Handle: "charlie"},
		}, []influencer.Activity{
			{TrendSlug: "crypto-chats-demo", EstimatedReach: 900, EngagementScore: 1, State: strPtr("Abuja")},
		}))
	}

	t.Run("influencer list sums followers and orders by total then handle", func(t *testing.T) {
		s := newStore(t)
		seedInfluencers(t, s)

		list, err := s.ListInfluencers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "alpha", list[0].Handle)
		assert.Equal(t, int64(500), list[0].TotalFollowers)
		assert.Equal(t, "bravo", list[1].Handle)
		assert.Equal(t, int64(500), list[1].TotalFollowers)
		assert.Equal(t, "charlie", list[2].Handle)
		assert.Equal(t, int64(0), list[2].TotalFollowers)
	})

	t.Run("profile orders platforms and caps metrics", func(t *testing.T) {
		s := newStore(t)
		seedInfluencers(t, s)

		p, err := s.GetProfile(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "alpha", p.Influencer.Handle)
		require.Len(t, p.Platforms, 3)
		assert.Equal(t, "tiktok", p.Platforms[0].Platform)
		assert.Equal(t, "instagram", p.Platforms[1].Platform)
		assert.Equal(t, "x", p.Platforms[2].Platform)

		require.Len(t, p.Metrics, influencer.RecentMetricDays)
		assert.Equal(t, "instagram", p.Metrics[0].Platform)
		assert.Equal(t, "x", p.Metrics[1].Platform)
		assert.True(t, p.Metrics[0].Date.Equal(p.Metrics[1].Date))
		for i := 1; i < len(p.Metrics); i++ {
			assert.False(t, p.Metrics[i].Date.After(p.Metrics[i-1].Date))
		}

		empty, err := s.GetProfile(ctx, "charlie")
		require.NoError(t, err)
		assert.NotNil(t, empty.Platforms)
		assert.Empty(t, empty.Platforms)
		assert.NotNil(t, empty.Metrics)

		_, err = s.GetProfile(ctx, "nobody")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	t.Run("trend influencers order by reach then engagement", func(t *testing.T) {
		s := newStore(t)
		seedInfluencers(t, s)

		impacts, err := s.TrendInfluencers(ctx, "crypto-chats-demo")
		require.NoError(t, err)
		require.Len(t, impacts, 3)
		assert.Equal(t, "charlie", impacts[0].Handle)
		require.NotNil(t, impacts[0].PrimaryState)
		assert.Equal(t, "Abuja", *impacts[0].PrimaryState)
		assert.Equal(t, "bravo", impacts[1].Handle)
		assert.Nil(t, impacts[1].PrimaryState)
		assert.Equal(t, "alpha", impacts[2].Handle)

		none, err := s.TrendInfluencers(ctx, "not-ingested-yet")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("shortlist add is idempotent", func(t *testing.T) {
		s := newStore(t)
		seedInfluencers(t, s)

		id, err := s.ResolveInfluencer(ctx, "bravo")
		require.NoError(t, err)
		require.NoError(t, s.AddShortlistItem(ctx, id))
		require.NoError(t, s.AddShortlistItem(ctx, id))

		list, err := s.ListShortlist(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "bravo", list[0].Handle)
		assert.Equal(t, int64(500), list[0].TotalFollowers)

		_, err = s.ResolveInfluencer(ctx, "nobody")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})
}
