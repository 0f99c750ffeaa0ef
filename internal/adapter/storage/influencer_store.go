// internal/adapter/storage/influencer_store.go

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

// InfluencerStore implements storage for influencers and the shortlist
type InfluencerStore struct {
	db *pgxpool.Pool
}

// NewInfluencerStore creates a new influencer store
func NewInfluencerStore(db *pgxpool.Pool) *InfluencerStore {
	return &InfluencerStore{
		db: db,
	}
}

const summarySelect = `
	SELECT
		i.id::text, i.handle, i.display_name, i.bio, i.primary_niche, i.avatar_url,
		COALESCE(SUM(ip.followers), 0)::bigint AS total_followers
	FROM influencers i
	LEFT JOIN influencer_platforms ip ON ip.influencer_id = i.id
`

const summaryOrder = `
	GROUP BY i.id
	ORDER BY total_followers DESC, i.handle ASC
`

// ListInfluencers returns every influencer with follower totals
func (s *InfluencerStore) ListInfluencers(ctx context.Context) ([]influencer.Summary, error) {
	return s.querySummaries(ctx, summarySelect+summaryOrder)
}

// ListShortlist returns shortlisted influencers with follower totals
func (s *InfluencerStore) ListShortlist(ctx context.Context) ([]influencer.Summary, error) {
	return s.querySummaries(ctx, summarySelect+`JOIN shortlist_items si ON si.influencer_id = i.id`+summaryOrder)
}

func (s *InfluencerStore) querySummaries(ctx context.Context, query string) ([]influencer.Summary, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	summaries := []influencer.Summary{}
	for rows.Next() {
		var sm influencer.Summary
		if err := rows.Scan(
			&sm.ID,
			&sm.Handle,
			&sm.DisplayName,
			&sm.Bio,
			&sm.PrimaryNiche,
			&sm.AvatarURL,
			&sm.TotalFollowers,
		); err != nil {
			return nil, fmt.Errorf("error scanning influencer: %w", err)
		}
		summaries = append(summaries, sm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating influencers: %w", err)
	}

	return summaries, nil
}

// GetProfile returns an influencer with platforms and the most recent metrics
func (s *InfluencerStore) GetProfile(ctx context.Context, handle string) (*influencer.Profile, error) {
	p := &influencer.Profile{
		Platforms: []influencer.Platform{},
		Metrics:   []influencer.Metric{},
	}

	err := s.db.QueryRow(ctx, `
		SELECT id::text, handle, display_name, bio, primary_niche, avatar_url, created_at
		FROM influencers
		WHERE handle = $1
	`, handle).Scan(
		&p.Influencer.ID,
		&p.Influencer.Handle,
		&p.Influencer.DisplayName,
		&p.Influencer.Bio,
		&p.Influencer.PrimaryNiche,
		&p.Influencer.AvatarURL,
		&p.Influencer.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT platform, platform_user_id, platform_url, followers
		FROM influencer_platforms
		WHERE influencer_id = $1
		ORDER BY followers DESC, platform ASC
	`, p.Influencer.ID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	for rows.Next() {
		var pl influencer.Platform
		if err := rows.Scan(&pl.Platform, &pl.PlatformUserID, &pl.PlatformURL, &pl.Followers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning platform: %w", err)
		}
		p.Platforms = append(p.Platforms, pl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platforms: %w", err)
	}

	rows, err = s.db.Query(ctx, `
		SELECT date, platform, reach, mentions, trend_impressions, unique_trends
		FROM influencer_metrics
		WHERE influencer_id = $1
		ORDER BY date DESC, platform ASC
		LIMIT $2
	`, p.Influencer.ID, influencer.RecentMetricDays)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m influencer.Metric
		if err := rows.Scan(&m.Date, &m.Platform, &m.Reach, &m.Mentions, &m.TrendImpressions, &m.UniqueTrends); err != nil {
			return nil, fmt.Errorf("error scanning metric: %w", err)
		}
		p.Metrics = append(p.Metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics: %w", err)
	}

	return p, nil
}

// TrendInfluencers returns influencers active on the trend. Unknown slugs yield no rows.
func (s *InfluencerStore) TrendInfluencers(ctx context.Context, slug string) ([]influencer.Impact, error) {
	query := `
		SELECT
			i.handle, i.display_name, i.primary_niche,
			ita.estimated_reach, ita.engagement_score,
			l.state AS primary_state
		FROM influencer_trend_activity ita
		JOIN trends t ON t.id = ita.trend_id
		JOIN influencers i ON i.id = ita.influencer_id
		LEFT JOIN locations l ON l.id = ita.primary_location_id
		WHERE t.slug = $1
		ORDER BY ita.estimated_reach DESC, ita.engagement_score DESC
	`

	rows, err := s.db.Query(ctx, query, trend.NormalizeSlug(slug))
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	impacts := []influencer.Impact{}
	for rows.Next() {
		var im influencer.Impact
		if err := rows.Scan(
			&im.Handle,
			&im.DisplayName,
			&im.PrimaryNiche,
			&im.EstimatedReach,
			&im.EngagementScore,
			&im.PrimaryState,
		); err != nil {
			return nil, fmt.Errorf("error scanning influencer impact: %w", err)
		}
		impacts = append(impacts, im)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating influencer impact: %w", err)
	}

	return impacts, nil
}

// ResolveInfluencer returns the ID of the influencer with the given handle
func (s *InfluencerStore) ResolveInfluencer(ctx context.Context, handle string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `SELECT id::text FROM influencers WHERE handle = $1`, strings.TrimSpace(handle)).Scan(&id)
	if err != nil {
		return "", notFound(err)
	}
	return id, nil
}

// AddShortlistItem shortlists the influencer; repeat calls leave one row
func (s *InfluencerStore) AddShortlistItem(ctx context.Context, influencerID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO shortlist_items (influencer_id) VALUES ($1) ON CONFLICT (influencer_id) DO NOTHING`,
		influencerID,
	)
	if err != nil {
		return fmt.Errorf("error adding shortlist item: %w", err)
	}
	return nil
}

// SeedInfluencer creates or refreshes a profile with its platforms, metrics and
// trend activity. Activity for trends that do not exist yet is skipped.
func (s *InfluencerStore) SeedInfluencer(ctx context.Context, p influencer.Profile, activity []influencer.Activity) error {
	return s.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		in := p.Influencer

		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO influencers (handle, display_name, bio, primary_niche, avatar_url)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (handle) DO UPDATE
			SET
				display_name = EXCLUDED.display_name,
				bio = EXCLUDED.bio,
				primary_niche = EXCLUDED.primary_niche,
				avatar_url = EXCLUDED.avatar_url
			RETURNING id::text
		`, in.Handle, in.DisplayName, in.Bio, in.PrimaryNiche, in.AvatarURL).Scan(&id)
		if err != nil {
			return fmt.Errorf("error upserting influencer %q: %w", in.Handle, err)
		}

		for _, pl := range p.Platforms {
			if _, err := tx.Exec(ctx, `
				INSERT INTO influencer_platforms (influencer_id, platform, platform_user_id, platform_url, followers)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (influencer_id, platform) DO UPDATE
				SET
					platform_user_id = EXCLUDED.platform_user_id,
					platform_url = EXCLUDED.platform_url,
					followers = EXCLUDED.followers
			`, id, pl.Platform, pl.PlatformUserID, pl.PlatformURL, pl.Followers); err != nil {
				return fmt.Errorf("error upserting platform %s: %w", pl.Platform, err)
			}
		}

		for _, m := range p.Metrics {
			if _, err := tx.Exec(ctx, `
				INSERT INTO influencer_metrics (influencer_id, date, platform, reach, mentions, trend_impressions, unique_trends)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (influencer_id, date, platform) DO UPDATE
				SET
					reach = EXCLUDED.reach,
					mentions = EXCLUDED.mentions,
					trend_impressions = EXCLUDED.trend_impressions,
					unique_trends = EXCLUDED.unique_trends
			`, id, m.Date, m.Platform, m.Reach, m.Mentions, m.TrendImpressions, m.UniqueTrends); err != nil {
				return fmt.Errorf("error upserting metric: %w", err)
			}
		}

		for _, a := range activity {
			if _, err := tx.Exec(ctx, `
				INSERT INTO influencer_trend_activity (influencer_id, trend_id, estimated_reach, engagement_score, primary_location_id)
				SELECT $1::uuid, t.id, $3::bigint, $4::double precision,
					(SELECT l.id FROM locations l WHERE l.state = $5::text AND l.lga IS NULL LIMIT 1)
				FROM trends t
				WHERE t.slug = $2
				ON CONFLICT (influencer_id, trend_id) DO UPDATE
				SET
					estimated_reach = EXCLUDED.estimated_reach,
					engagement_score = EXCLUDED.engagement_score,
					primary_location_id = EXCLUDED.primary_location_id
			`, id, trend.NormalizeSlug(a.TrendSlug), a.EstimatedReach, a.EngagementScore, a.State); err != nil {
				return fmt.Errorf("error upserting trend activity: %w", err)
			}
		}

		return nil
	})
}
