// Package source fetches trending topics from third-party feeds and
// normalizes each feed's payload into trend upsert inputs.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"spykes/internal/domain/trend"
)

// DefaultScore is used when a source gives no usable popularity signal.
const DefaultScore = 75

const (
	maxPayloadBytes = 8 << 20
	userAgent       = "spykes/1.0 (+https://spykes.dev)"
)

// ErrMissingCredentials is returned when a source's required settings are absent.
var ErrMissingCredentials = errors.New("missing source credentials")

// Source is one trend feed
type Source interface {
	// Name is the tag the source is selected by
	Name() string

	// Fetch retrieves the raw payload
	Fetch(ctx context.Context) ([]byte, error)

	// Normalize converts a raw payload into upsert inputs without any I/O
	Normalize(raw []byte) (trend.Batch, error)
}

// StatusError reports a non-2xx response from a source
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses runs of non-alphanumerics into a single
// hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// prefixedSlug returns prefix-slugify(s), or "" when s has no slug characters.
func prefixedSlug(prefix, s string) string {
	body := Slugify(s)
	if body == "" {
		return ""
	}
	return prefix + "-" + body
}

// ScoreOrDefault returns the first candidate that is finite and positive,
// falling back to DefaultScore.
func ScoreOrDefault(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil && !math.IsNaN(*c) && !math.IsInf(*c, 0) && *c > 0 {
			return *c
		}
	}
	return DefaultScore
}

// number decodes a JSON number or a numeric string. Anything else decodes as absent.
type number struct {
	value *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.value = nil
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.value = &f
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64); err == nil {
			n.value = &f
		}
	}
	return nil
}

// collect applies the per-run cap, normalizes each item and attaches the
// default location score. Items the normalizer rejects are skipped.
func collect[T any](items []T, limit int, state string, normalize func(T) (trend.Input, bool)) trend.Batch {
	if len(items) > limit {
		items = items[:limit]
	}

	batch := trend.Batch{
		Trends:    make([]trend.Input, 0, len(items)),
		Locations: make([]trend.LocationInput, 0, len(items)),
	}
	for _, item := range items {
		in, ok := normalize(item)
		if !ok {
			continue
		}
		batch.Trends = append(batch.Trends, in)
		batch.Locations = append(batch.Locations, trend.LocationInput{
			TrendSlug: in.Slug,
			State:     state,
			LGA:       nil,
			Score:     in.GlobalScore,
		})
	}
	return batch
}

// fetcher performs GET requests with fixed headers
type fetcher struct {
	client  *http.Client
	headers map[string]string
}

func newFetcher(timeout time.Duration, headers map[string]string) fetcher {
	return fetcher{
		client:  &http.Client{Timeout: timeout},
		headers: headers,
	}
}

func rapidAPIHeaders(key, host string) map[string]string {
	return map[string]string{
		"X-RapidAPI-Key":  key,
		"X-RapidAPI-Host": host,
	}
}

func (f fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}

func requireSettings(source string, settings map[string]string) error {
	var missing []string
	for name, value := range settings {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%s: %w: %s", source, ErrMissingCredentials, strings.Join(missing, ", "))
}
