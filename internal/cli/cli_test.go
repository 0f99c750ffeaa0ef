package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spykes/internal/adapter/source"
	"spykes/internal/apiclient"
	"spykes/internal/app"
	"spykes/internal/config"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/server"
	"spykes/internal/service/shortlist"
)

func TestExecuteVersion(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "spykes dev (none)\n", buf.String())
}

func TestIngestSubcommands(t *testing.T) {
	for _, name := range source.Names() {
		cmd, _, err := rootCmd.Find([]string{"ingest", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short, name)
	}
}

func memoryConfig() config.Config {
	return config.Config{
		Environment: "development",
		Database:    config.DatabaseConfig{Driver: config.DriverMemory},
		NATS:        config.NATSConfig{EventsTopic: "trend"},
		Sources:     config.SourcesConfig{DefaultState: "Lagos"},
	}
}

func TestRunIngest_Demo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runIngest(context.Background(), &buf, memoryConfig(), "demo"))

	out := buf.String()
	assert.Contains(t, out, "demo: fetched")
	assert.Contains(t, out, "trends 4 upserted / 0 skipped")
	assert.Contains(t, out, "locations 8 upserted / 0 skipped")
}

func TestRunIngest_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := runIngest(context.Background(), &buf, memoryConfig(), "myspace")
	assert.Error(t, err)

	err = runIngest(context.Background(), &buf, memoryConfig(), "tiktok")
	assert.True(t, errors.Is(err, source.ErrMissingCredentials), "got %v", err)

	assert.Empty(t, buf.String())
}

// serveDemoAPI points the read commands at a router over the demo data.
func serveDemoAPI(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop().Sugar()

	store, closeStore, err := app.OpenStore(ctx, config.DatabaseConfig{Driver: config.DriverMemory}, log)
	require.NoError(t, err)
	t.Cleanup(closeStore)
	require.NoError(t, app.LoadDemoData(ctx, store, log))

	srv := httptest.NewServer(server.NewRouter(config.ServerConfig{CorsOrigins: []string{"*"}}, server.Deps{
		Store:     store,
		Shortlist: shortlist.NewService(store, log),
		Log:       log,
	}))
	t.Cleanup(srv.Close)

	setAPIURL(t, srv.URL)
}

func setAPIURL(t *testing.T, u string) {
	t.Helper()
	old := apiURL
	apiURL = u
	t.Cleanup(func() { apiURL = old })
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestTrendsAction(t *testing.T) {
	serveDemoAPI(t)

	cmd, buf := testCommand()
	require.NoError(t, trendsAction(cmd, nil))
	out := buf.String()
	assert.Contains(t, out, "Momentum")
	assert.Contains(t, out, "naira-dollar-google")
	assert.Contains(t, out, "fuel-queue-demo")

	oldMomentum := trendMomentum
	trendMomentum = "rising"
	t.Cleanup(func() { trendMomentum = oldMomentum })

	cmd, buf = testCommand()
	require.NoError(t, trendsAction(cmd, nil))
	assert.Contains(t, buf.String(), "naira-dollar-google")
	assert.NotContains(t, buf.String(), "fuel-queue-demo")
}

func TestTrendsAction_Detail(t *testing.T) {
	serveDemoAPI(t)

	cmd, buf := testCommand()
	require.NoError(t, trendsAction(cmd, []string{"naira-dollar-google"}))
	out := buf.String()
	assert.Contains(t, out, "Naira to Dollar (Google)")
	assert.Contains(t, out, "Lagos")
	assert.Contains(t, out, "@techbro_tunde")

	cmd, buf = testCommand()
	require.NoError(t, trendsAction(cmd, []string{"missing"}))
	assert.Equal(t, "Trend not found.\n", buf.String())
}

func TestTrendsAction_APIDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()
	setAPIURL(t, srv.URL)

	cmd, buf := testCommand()
	require.NoError(t, trendsAction(cmd, nil))
	assert.Equal(t, "No trends found.\n", buf.String())
}

func TestInfluencersAction(t *testing.T) {
	serveDemoAPI(t)

	cmd, buf := testCommand()
	require.NoError(t, influencersAction(cmd, nil))
	assert.Contains(t, buf.String(), "@lagoseats")
	assert.Contains(t, buf.String(), "343k")

	oldBand := influencerBand
	influencerBand = "0-50k"
	t.Cleanup(func() { influencerBand = oldBand })

	cmd, buf = testCommand()
	require.NoError(t, influencersAction(cmd, nil))
	assert.Contains(t, buf.String(), "@campusgist")
	assert.NotContains(t, buf.String(), "@lagoseats")

	cmd, buf = testCommand()
	require.NoError(t, influencersAction(cmd, []string{"lagoseats"}))
	assert.Contains(t, buf.String(), "Platforms")

	cmd, buf = testCommand()
	require.NoError(t, influencersAction(cmd, []string{"nobody"}))
	assert.Equal(t, "Influencer not found.\n", buf.String())
}

func TestShortlistActions(t *testing.T) {
	serveDemoAPI(t)

	cmd, buf := testCommand()
	require.NoError(t, shortlistAction(cmd, nil))
	assert.Equal(t, "No influencers in shortlist yet.\n", buf.String())

	cmd, buf = testCommand()
	require.NoError(t, shortlistAddAction(cmd, []string{" campusgist "}))
	assert.Equal(t, "added campusgist to shortlist\n", buf.String())

	cmd, buf = testCommand()
	require.NoError(t, shortlistAction(cmd, nil))
	assert.Contains(t, buf.String(), "@campusgist")

	cmd, _ = testCommand()
	err := shortlistAddAction(cmd, []string{"nobody"})
	assert.True(t, errors.Is(err, apiclient.ErrNotFound), "got %v", err)
}

func TestPrintTrends(t *testing.T) {
	var buf bytes.Buffer
	printTrends(&buf, nil)
	assert.Equal(t, "No trends found.\n", buf.String())

	buf.Reset()
	printTrends(&buf, []trend.Summary{{
		Trend:    trend.Trend{Slug: "x-ozo", Title: "Ozo", GlobalScore: 91},
		Momentum: trend.MomentumRising,
		Window:   trend.Window24h,
	}})
	assert.Contains(t, buf.String(), "x-ozo")
	assert.Contains(t, buf.String(), "91.0")
	assert.Contains(t, buf.String(), "unknown")
}

func TestPrintProfile_Empty(t *testing.T) {
	var buf bytes.Buffer
	printProfile(&buf, &influencer.Profile{Influencer: influencer.Influencer{Handle: "quiet"}})

	out := buf.String()
	assert.Contains(t, out, "@quiet  -")
	assert.Contains(t, out, "No platforms linked.")
	assert.Contains(t, out, "No metrics yet.")
}

func TestCompact(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1k"},
		{38_500, "38.5k"},
		{343_000, "343k"},
		{1_200_000, "1.2M"},
		{2_000_000, "2M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compact(tt.n), "compact(%d)", tt.n)
	}
}

func TestTrendDetailRendersLGA(t *testing.T) {
	lga := "Ikeja"
	var buf bytes.Buffer
	printTrendDetail(&buf, &trend.Detail{
		Trend:     trend.Trend{Slug: "s", Title: "T", GlobalScore: 50, FirstSeenAt: time.Now(), LastSeenAt: time.Now()},
		Locations: []trend.LocationScore{{State: "Lagos", LGA: &lga, Score: 40}},
	}, nil)

	assert.Contains(t, buf.String(), "Lagos / Ikeja")
	assert.Contains(t, buf.String(), "No influencer activity yet.")
}
