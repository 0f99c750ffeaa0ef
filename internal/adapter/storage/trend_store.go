// internal/adapter/storage/trend_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"spykes/internal/domain/trend"
)

// TrendStore implements storage for trends and their location scores
type TrendStore struct {
	db *pgxpool.Pool
}

// NewTrendStore creates a new trend store
func NewTrendStore(db *pgxpool.Pool) *TrendStore {
	return &TrendStore{
		db: db,
	}
}

// UpsertTrend inserts a trend or refreshes an existing one with the same slug.
// first_seen_at is only ever written on insert.
func (s *TrendStore) UpsertTrend(ctx context.Context, in trend.Input, seenAt time.Time) error {
	query := `
		INSERT INTO trends (
			slug, title, description, global_score,
			first_seen_at, last_seen_at, normalized_keyword, source, kind
		) VALUES (
			$1, $2, $3, $4,
			$5, $5, $6, $7, $8
		)
		ON CONFLICT (slug) DO UPDATE
		SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			global_score = EXCLUDED.global_score,
			last_seen_at = EXCLUDED.last_seen_at,
			normalized_keyword = EXCLUDED.normalized_keyword,
			source = EXCLUDED.source,
			kind = EXCLUDED.kind
	`

	slug := trend.NormalizeSlug(in.Slug)

	_, err := s.db.Exec(ctx, query,
		slug,
		in.Title,
		in.Description,
		in.GlobalScore,
		seenAt,
		slug,
		nullable(in.Source),
		nullable(in.Kind),
	)
	if err != nil {
		return fmt.Errorf("error upserting trend %q: %w", slug, err)
	}

	return nil
}

// ResolveTrend returns the ID of the trend with the given slug
func (s *TrendStore) ResolveTrend(ctx context.Context, slug string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `SELECT id::text FROM trends WHERE slug = $1`, trend.NormalizeSlug(slug)).Scan(&id)
	if err != nil {
		return "", notFound(err)
	}
	return id, nil
}

// ResolveLocation returns the ID of the location matching state and LGA exactly.
// A nil LGA only matches rows where lga IS NULL.
func (s *TrendStore) ResolveLocation(ctx context.Context, state string, lga *string) (string, error) {
	query := `
		SELECT id::text
		FROM locations
		WHERE state = $1 AND lga IS NOT DISTINCT FROM $2
		LIMIT 1
	`

	var id string
	if err := s.db.QueryRow(ctx, query, state, lga).Scan(&id); err != nil {
		return "", notFound(err)
	}
	return id, nil
}

// ReplaceTrendLocation deletes the existing score for the pair and inserts the new one.
// Both statements share one short transaction on a single pooled connection,
// serialized per pair by a transaction-scoped advisory lock.
func (s *TrendStore) ReplaceTrendLocation(ctx context.Context, trendID, locationID string, score float64) error {
	err := s.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1::text), hashtext($2::text))`,
			trendID, locationID,
		); err != nil {
			return fmt.Errorf("error locking trend location: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM trend_locations WHERE trend_id = $1 AND location_id = $2`,
			trendID, locationID,
		); err != nil {
			return fmt.Errorf("error deleting trend location: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO trend_locations (trend_id, location_id, score, updated_at)
			VALUES ($1, $2, $3, now())
		`, trendID, locationID, score); err != nil {
			return fmt.Errorf("error inserting trend location: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("error replacing trend location: %w", err)
	}
	return nil
}

// ListTrends returns the highest scoring trends
func (s *TrendStore) ListTrends(ctx context.Context, limit int) ([]trend.Trend, error) {
	if limit <= 0 {
		limit = trend.DefaultListLimit
	}

	query := `
		SELECT
			id::text, slug, title, description, global_score,
			normalized_keyword, source, kind, first_seen_at, last_seen_at
		FROM trends
		ORDER BY global_score DESC, slug ASC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	trends := make([]trend.Trend, 0, limit)
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning trend: %w", err)
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trends: %w", err)
	}

	return trends, nil
}

// GetTrendDetail returns a trend and its location breakdown
func (s *TrendStore) GetTrendDetail(ctx context.Context, slug string) (*trend.Detail, error) {
	query := `
		SELECT
			id::text, slug, title, description, global_score,
			normalized_keyword, source, kind, first_seen_at, last_seen_at
		FROM trends
		WHERE slug = $1
	`

	t, err := scanTrend(s.db.QueryRow(ctx, query, trend.NormalizeSlug(slug)))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT l.state, l.lga, tl.score
		FROM trend_locations tl
		JOIN locations l ON l.id = tl.location_id
		WHERE tl.trend_id = $1
		ORDER BY tl.score DESC, l.state ASC
	`, t.ID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	detail := &trend.Detail{Trend: t, Locations: []trend.LocationScore{}}
	for rows.Next() {
		var ls trend.LocationScore
		if err := rows.Scan(&ls.State, &ls.LGA, &ls.Score); err != nil {
			return nil, fmt.Errorf("error scanning trend location: %w", err)
		}
		detail.Locations = append(detail.Locations, ls)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend locations: %w", err)
	}

	return detail, nil
}

// SeedLocations inserts reference locations that are not present yet
func (s *TrendStore) SeedLocations(ctx context.Context, locations []trend.Location) (int, error) {
	added := 0
	for _, l := range locations {
		tag, err := s.db.Exec(ctx,
			`INSERT INTO locations (state, lga) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			l.State, l.LGA,
		)
		if err != nil {
			return added, fmt.Errorf("error seeding location %s: %w", l.State, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

// Ping checks database connectivity
func (s *TrendStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanTrend(row pgx.Row) (trend.Trend, error) {
	var t trend.Trend
	err := row.Scan(
		&t.ID,
		&t.Slug,
		&t.Title,
		&t.Description,
		&t.GlobalScore,
		&t.NormalizedKeyword,
		&t.Source,
		&t.Kind,
		&t.FirstSeenAt,
		&t.LastSeenAt,
	)
	return t, err
}
