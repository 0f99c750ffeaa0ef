package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

func TestTikTokNormalize(t *testing.T) {
	s, err := NewTikTok(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`{"data":[
		{"hashtag_name":"#BBNaija","video_views":1500000},
		{"hashtag_name":"","video_views":10},
		{"hashtag_name":"Detty December","video_views":0},
		{"hashtag_name":"#!!!","video_views":5}
	]}`))
	require.NoError(t, err)

	require.Len(t, batch.Trends, 2)
	first := batch.Trends[0]
	assert.Equal(t, "tiktok-bbnaija", first.Slug)
	assert.Equal(t, "#BBNaija (TikTok)", first.Title)
	assert.Equal(t, "Trending TikTok hashtag: #BBNaija", first.Description)
	assert.Equal(t, 1500000.0, first.GlobalScore)
	assert.Equal(t, "tiktok", first.Source)
	assert.Equal(t, "hashtag", first.Kind)

	second := batch.Trends[1]
	assert.Equal(t, "tiktok-detty-december", second.Slug)
	assert.Equal(t, 75.0, second.GlobalScore)

	require.Len(t, batch.Locations, 2)
	for i, l := range batch.Locations {
		assert.Equal(t, batch.Trends[i].Slug, l.TrendSlug)
		assert.Equal(t, "Lagos", l.State)
		assert.Nil(t, l.LGA)
		assert.Equal(t, batch.Trends[i].GlobalScore, l.Score)
	}
}

func TestTikTokNormalize_CapsAtTwenty(t *testing.T) {
	s, err := NewTikTok(testConfig())
	require.NoError(t, err)

	items := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, fmt.Sprintf(`{"hashtag_name":"tag%d","video_views":%d}`, i, i+1))
	}
	batch, err := s.Normalize([]byte(`{"data":[` + strings.Join(items, ",") + `]}`))
	require.NoError(t, err)
	assert.Len(t, batch.Trends, 20)
	assert.Equal(t, "tiktok-tag19", batch.Trends[19].Slug)
}

func TestTikTokNormalize_EmptyAndInvalid(t *testing.T) {
	s, err := NewTikTok(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`{"message":"no data"}`))
	require.NoError(t, err)
	assert.Empty(t, batch.Trends)
	assert.Empty(t, batch.Locations)

	_, err = s.Normalize([]byte(`<html>`))
	assert.Error(t, err)
}

func TestXNormalize(t *testing.T) {
	s, err := NewX(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`[{"trends":[
		{"name":"#EndSARS","tweet_volume":250000},
		{"name":"Tinubu","tweet_volume":null},
		{"name":""}
	],"locations":[{"name":"Lagos"}]}]`))
	require.NoError(t, err)

	require.Len(t, batch.Trends, 2)
	assert.Equal(t, "x-endsars", batch.Trends[0].Slug)
	assert.Equal(t, "#EndSARS (X)", batch.Trends[0].Title)
	assert.Equal(t, "Trending topic on X: #EndSARS", batch.Trends[0].Description)
	assert.Equal(t, 250000.0, batch.Trends[0].GlobalScore)
	assert.Equal(t, "topic", batch.Trends[0].Kind)
	assert.Equal(t, 75.0, batch.Trends[1].GlobalScore)

	empty, err := s.Normalize([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, empty.Trends)

	_, err = s.Normalize([]byte(`{"trends":[]}`))
	assert.Error(t, err, "object form is not the contracted shape")
}

func TestRedditNormalize(t *testing.T) {
	s, err := NewReddit(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`{"data":{"children":[
		{"data":{"title":"Fuel price hits N1000","subreddit":"Nigeria","score":532,"selftext":""}},
		{"data":{"title":"Jollof wars","subreddit":"","score":0,"ups":41,"selftext":"Ghana vs Nigeria again"}},
		{"data":{"title":"Quiet post","subreddit":"lagos","score":-2}},
		{"data":{"title":"","score":99}}
	]}}`))
	require.NoError(t, err)
	require.Len(t, batch.Trends, 3)

	assert.Equal(t, "reddit-fuel-price-hits-n1000", batch.Trends[0].Slug)
	assert.Equal(t, "Fuel price hits N1000 (r/Nigeria)", batch.Trends[0].Title)
	assert.Equal(t, "Trending Reddit post in r/Nigeria: Fuel price hits N1000", batch.Trends[0].Description)
	assert.Equal(t, 532.0, batch.Trends[0].GlobalScore)

	assert.Equal(t, "Jollof wars (r/reddit)", batch.Trends[1].Title)
	assert.Equal(t, "Ghana vs Nigeria again", batch.Trends[1].Description)
	assert.Equal(t, 41.0, batch.Trends[1].GlobalScore)

	assert.Equal(t, 75.0, batch.Trends[2].GlobalScore)
	assert.Equal(t, "reddit", batch.Trends[2].Source)
}

func TestRedditNormalize_CapsAtTen(t *testing.T) {
	s, err := NewReddit(testConfig())
	require.NoError(t, err)

	children := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		children = append(children, fmt.Sprintf(`{"data":{"title":"post %d","score":%d}}`, i, i+1))
	}
	batch, err := s.Normalize([]byte(`{"data":{"children":[` + strings.Join(children, ",") + `]}}`))
	require.NoError(t, err)
	assert.Len(t, batch.Trends, 10)
}

func TestYouTubeNormalize(t *testing.T) {
	s, err := NewYouTube(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`{"items":[
		{"title":"Davido Live in Lagos","channel":"Davido","views":200000},
		{"title":"Skit Compilation","score":88,"description":"Best of the week"},
		{"title":"No signal"},
		{"channel":"Untitled"}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Trends, 3)

	assert.Equal(t, "youtube-davido-live-in-lagos", batch.Trends[0].Slug)
	assert.Equal(t, "Davido Live in Lagos (YouTube)", batch.Trends[0].Title)
	assert.Equal(t, "Trending YouTube video: Davido Live in Lagos", batch.Trends[0].Description)
	assert.Equal(t, 200000.0, batch.Trends[0].GlobalScore)

	assert.Equal(t, 88.0, batch.Trends[1].GlobalScore)
	assert.Equal(t, "Best of the week", batch.Trends[1].Description)
	assert.Equal(t, 75.0, batch.Trends[2].GlobalScore)
	assert.Equal(t, "video", batch.Trends[2].Kind)
}

func TestGoogleFetchAndNormalize(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 2, 14, 23, 30, 0, 0, time.FixedZone("WAT", 3600)) }
	s, err := NewGoogle(testConfig(), now)
	require.NoError(t, err)

	var gotURL string
	s.fetch.client.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return response(http.StatusOK, `{}`), nil
	})
	_, err = s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://google-trends8.p.rapidapi.test/trendings?date=2026-02-14&hl=en-US&region_code=NG", gotURL)

	batch, err := s.Normalize([]byte(`{"results":[
		{"title":"Naira"},{"title":"AFCON"},{"title":""},{"title":"Super Eagles"},
		{"title":"BBNaija"},{"title":"Fuel"},{"title":"Tinubu"}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch.Trends, 4, "cap of five applies before skipping blanks")

	assert.Equal(t, "google-naira", batch.Trends[0].Slug)
	assert.Equal(t, "Naira (Google NG)", batch.Trends[0].Title)
	assert.Equal(t, "Google Nigeria trending topic on 2026-02-14: Naira", batch.Trends[0].Description)
	assert.Equal(t, 75.0, batch.Trends[0].GlobalScore)
	assert.Equal(t, "search", batch.Trends[0].Kind)
}

func TestGoogleNormalize_WithoutFetch(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	s, err := NewGoogle(testConfig(), now)
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(`{"results":[{"title":"Naira"}]}`))
	require.NoError(t, err)
	require.Len(t, batch.Trends, 1)
	assert.Equal(t, "Google Nigeria trending topic on 2026-03-01: Naira", batch.Trends[0].Description)
}

const googleRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:ht="https://trends.google.com/trending/rss">
  <channel>
    <title>Daily Search Trends</title>
    <item>
      <title>Super Eagles</title>
      <ht:approx_traffic>20,000+</ht:approx_traffic>
    </item>
    <item>
      <title>Naira</title>
    </item>
    <item>
      <title></title>
      <ht:approx_traffic>500+</ht:approx_traffic>
    </item>
  </channel>
</rss>`

func TestGoogleRSSNormalize(t *testing.T) {
	s, err := NewGoogleRSS(testConfig())
	require.NoError(t, err)

	batch, err := s.Normalize([]byte(googleRSSFeed))
	require.NoError(t, err)
	require.Len(t, batch.Trends, 2)

	assert.Equal(t, "google-super-eagles", batch.Trends[0].Slug)
	assert.Equal(t, 20000.0, batch.Trends[0].GlobalScore)
	assert.Equal(t, "Google Trends daily search (20000+ searches): Super Eagles", batch.Trends[0].Description)
	assert.Equal(t, 75.0, batch.Trends[1].GlobalScore)
	assert.Equal(t, "Lagos", batch.Locations[1].State)

	_, err = s.Normalize([]byte("not a feed"))
	assert.Error(t, err)
}

func TestFixtureSources(t *testing.T) {
	demo := NewDemo()
	raw, err := demo.Fetch(context.Background())
	require.NoError(t, err)

	batch, err := demo.Normalize(raw)
	require.NoError(t, err)
	assert.Len(t, batch.Trends, 4)
	assert.Len(t, batch.Locations, 8)

	gd := NewGoogleDemo()
	raw, err = gd.Fetch(context.Background())
	require.NoError(t, err)
	batch, err = gd.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "naira-dollar-google", batch.Trends[0].Slug)
	assert.Equal(t, 90.0, batch.Locations[0].Score)
}
