// Package apiclient is a typed client for the spykes read API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

// ErrNotFound is returned for 404 responses
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client calls the API rooted at baseURL
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. baseURL is the server origin, e.g. http://localhost:8080.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListTrends returns the top trends matching f
func (c *Client) ListTrends(ctx context.Context, f trend.Filter) ([]trend.Summary, error) {
	q := url.Values{}
	setIf(q, "q", f.Query)
	setIf(q, "momentum", string(f.Momentum))
	setIf(q, "window", string(f.Window))

	var out []trend.Summary
	err := c.do(ctx, http.MethodGet, "/api/trends", q, nil, &out)
	return out, err
}

// GetTrend returns one trend with its location scores
func (c *Client) GetTrend(ctx context.Context, slug string) (*trend.Detail, error) {
	var out trend.Detail
	if err := c.do(ctx, http.MethodGet, "/api/trends/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendInfluencers returns influencers active on a trend
func (c *Client) TrendInfluencers(ctx context.Context, slug string) ([]influencer.Impact, error) {
	var out []influencer.Impact
	err := c.do(ctx, http.MethodGet, "/api/trends/"+url.PathEscape(slug)+"/influencers", nil, nil, &out)
	return out, err
}

// ListInfluencers returns influencers matching f
func (c *Client) ListInfluencers(ctx context.Context, f influencer.Filter) ([]influencer.Summary, error) {
	var out []influencer.Summary
	err := c.do(ctx, http.MethodGet, "/api/influencers", influencerQuery(f), nil, &out)
	return out, err
}

// GetInfluencer returns a full profile
func (c *Client) GetInfluencer(ctx context.Context, handle string) (*influencer.Profile, error) {
	var out influencer.Profile
	if err := c.do(ctx, http.MethodGet, "/api/influencers/"+url.PathEscape(handle), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListShortlist returns shortlisted influencers matching f
func (c *Client) ListShortlist(ctx context.Context, f influencer.Filter) ([]influencer.Summary, error) {
	var out []influencer.Summary
	err := c.do(ctx, http.MethodGet, "/api/shortlist", influencerQuery(f), nil, &out)
	return out, err
}

// AddToShortlist shortlists an influencer by handle
func (c *Client) AddToShortlist(ctx context.Context, handle string) error {
	return c.do(ctx, http.MethodPost, "/api/shortlist", nil, map[string]string{"handle": handle}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func influencerQuery(f influencer.Filter) url.Values {
	q := url.Values{}
	setIf(q, "q", f.Query)
	setIf(q, "niche", f.Niche)
	if f.Band != influencer.BandAll {
		setIf(q, "band", string(f.Band))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
