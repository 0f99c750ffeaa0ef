package storage

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spykes/internal/domain/trend"
)

// setupTestDB connects to TEST_DATABASE_URL and applies the schema, skipping
// the test when no database is configured.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping Postgres integration test")
	}

	ctx := context.Background()
	db, err := pgxpool.Connect(ctx, url)
	if err != nil {
		t.Skipf("Postgres unavailable: %v", err)
	}
	t.Cleanup(db.Close)

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "migrate must be repeatable")

	return db
}

func resetTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		TRUNCATE shortlist_items, influencer_trend_activity, influencer_metrics,
			influencer_platforms, influencers, trend_locations, locations, trends
		CASCADE
	`)
	require.NoError(t, err)
}

func TestPostgresStores_Contract(t *testing.T) {
	db := setupTestDB(t)

	runStoreContract(t, func(t *testing.T) contractStore {
		resetTables(t, db)
		return NewPostgresStore(db)
	})
}

func TestPostgresStores_Ping(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewTrendStore(db).Ping(context.Background()))
}

func TestTrendStore_ConcurrentReplaceKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	resetTables(t, db)

	ctx := context.Background()
	store := NewTrendStore(db)

	_, err := store.SeedLocations(ctx, []trend.Location{{State: "Lagos"}})
	require.NoError(t, err)
	require.NoError(t, store.UpsertTrend(ctx, trend.Input{Slug: "fuel-queue-demo", Title: "Fuel", GlobalScore: 59}, time.Now()))

	trendID, err := store.ResolveTrend(ctx, "fuel-queue-demo")
	require.NoError(t, err)
	locationID, err := store.ResolveLocation(ctx, "Lagos", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(score float64) {
			defer wg.Done()
			errs <- store.ReplaceTrendLocation(ctx, trendID, locationID, score)
		}(float64(50 + i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var rows int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT count(*) FROM trend_locations WHERE trend_id = $1 AND location_id = $2`,
		trendID, locationID,
	).Scan(&rows))
	assert.Equal(t, 1, rows)
}
