package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spykes/internal/adapter/source"
	"spykes/internal/adapter/storage"
	"spykes/internal/config"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/server"
	"spykes/internal/service/ingest"
	"spykes/internal/service/seed"
	"spykes/internal/service/shortlist"
)

// newTestAPI serves the real router over the demo data.
func newTestAPI(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop().Sugar()

	store := storage.NewMemoryStore()
	_, err := seed.Locations(ctx, store)
	require.NoError(t, err)
	_, err = ingest.NewRunner(ingest.NewEngine(store, log), nil, log, ingest.RunnerConfig{}).Run(ctx, source.NewDemo())
	require.NoError(t, err)
	_, err = seed.Influencers(ctx, store, time.Now())
	require.NoError(t, err)

	srv := httptest.NewServer(server.NewRouter(config.ServerConfig{CorsOrigins: []string{"*"}}, server.Deps{
		Store:     store,
		Shortlist: shortlist.NewService(store, log),
		Log:       log,
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL+"/", 5*time.Second)
}

func TestClient_Trends(t *testing.T) {
	ctx := context.Background()
	c := newTestAPI(t)

	list, err := c.ListTrends(ctx, trend.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "crypto-chats-demo", list[0].Slug)

	rising, err := c.ListTrends(ctx, trend.Filter{Momentum: trend.MomentumRising})
	require.NoError(t, err)
	assert.Len(t, rising, 1)

	detail, err := c.GetTrend(ctx, "demo-ingestion")
	require.NoError(t, err)
	assert.Equal(t, "Demo ingestion trend", detail.Trend.Title)
	assert.Len(t, detail.Locations, 2)

	_, err = c.GetTrend(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Trend not found", apiErr.Message)

	impacts, err := c.TrendInfluencers(ctx, "demo-ingestion")
	require.NoError(t, err)
	assert.Len(t, impacts, 2)
}

func TestClient_InfluencersAndShortlist(t *testing.T) {
	ctx := context.Background()
	c := newTestAPI(t)

	all, err := c.ListInfluencers(ctx, influencer.Filter{Band: influencer.BandAll})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	small, err := c.ListInfluencers(ctx, influencer.Filter{Band: influencer.BandUpTo50k})
	require.NoError(t, err)
	for _, s := range small {
		assert.LessOrEqual(t, s.TotalFollowers, int64(50_000))
	}

	profile, err := c.GetInfluencer(ctx, "techbro_tunde")
	require.NoError(t, err)
	assert.Len(t, profile.Platforms, 2)

	_, err = c.GetInfluencer(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.AddToShortlist(ctx, "campusgist"))
	require.NoError(t, c.AddToShortlist(ctx, "campusgist"))

	err = c.AddToShortlist(ctx, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.ErrorIs(t, c.AddToShortlist(ctx, "ghost"), ErrNotFound)

	items, err := c.ListShortlist(ctx, influencer.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "campusgist", items[0].Handle)
}

func TestClient_ServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/trends":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{not json"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	_, err := c.ListTrends(context.Background(), trend.Filter{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)

	_, err = c.ListInfluencers(context.Background(), influencer.Filter{})
	assert.ErrorContains(t, err, "decode /api/influencers response")
}

func TestClient_Unreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.ListShortlist(context.Background(), influencer.Filter{})
	assert.Error(t, err)
}
