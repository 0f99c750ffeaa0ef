package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

type pairKey struct {
	trendID    string
	locationID string
}

type memoryInfluencer struct {
	profile  influencer.Profile
	activity []influencer.Activity
}

// MemoryStore is an in-process store with the same ordering and
// idempotence rules as the Postgres stores. Used for development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	trends         map[string]*trend.Trend // by slug
	locations      []trend.Location
	trendLocations map[pairKey]float64
	influencers    map[string]*memoryInfluencer // by handle
	shortlist      map[string]time.Time         // by influencer ID

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trends:         make(map[string]*trend.Trend),
		trendLocations: make(map[pairKey]float64),
		influencers:    make(map[string]*memoryInfluencer),
		shortlist:      make(map[string]time.Time),
		now:            time.Now,
	}
}

// UpsertTrend inserts or refreshes a trend, keeping first_seen_at on update
func (m *MemoryStore) UpsertTrend(ctx context.Context, in trend.Input, seenAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slug := trend.NormalizeSlug(in.Slug)
	t, ok := m.trends[slug]
	if !ok {
		t = &trend.Trend{ID: uuid.NewString(), Slug: slug, FirstSeenAt: seenAt}
		m.trends[slug] = t
	}

	t.Title = in.Title
	t.Description = in.Description
	t.GlobalScore = in.GlobalScore
	t.LastSeenAt = seenAt
	t.NormalizedKeyword = slug
	t.Source = nullable(in.Source)
	t.Kind = nullable(in.Kind)

	return nil
}

// ResolveTrend returns the ID of the trend with the given slug
func (m *MemoryStore) ResolveTrend(ctx context.Context, slug string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.trends[trend.NormalizeSlug(slug)]; ok {
		return t.ID, nil
	}
	return "", identity.ErrNotFound
}

// ResolveLocation returns the first location matching state and LGA exactly
func (m *MemoryStore) ResolveLocation(ctx context.Context, state string, lga *string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.locations {
		if l.State == state && trend.SameLGA(l.LGA, lga) {
			return l.ID, nil
		}
	}
	return "", identity.ErrNotFound
}

// ReplaceTrendLocation overwrites the score for the pair
func (m *MemoryStore) ReplaceTrendLocation(ctx context.Context, trendID, locationID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{trendID: trendID, locationID: locationID}
	delete(m.trendLocations, key)
	m.trendLocations[key] = score
	return nil
}

// SeedLocations adds locations whose (state, lga) pair is not present yet
func (m *MemoryStore) SeedLocations(ctx context.Context, locations []trend.Location) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, l := range locations {
		exists := false
		for _, existing := range m.locations {
			if existing.State == l.State && trend.SameLGA(existing.LGA, l.LGA) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		l.ID = uuid.NewString()
		m.locations = append(m.locations, l)
		added++
	}
	return added, nil
}

// ListTrends returns trends by global score, highest first
func (m *MemoryStore) ListTrends(ctx context.Context, limit int) ([]trend.Trend, error) {
	if limit <= 0 {
		limit = trend.DefaultListLimit
	}

	m.mu.RLock()
	trends := make([]trend.Trend, 0, len(m.trends))
	for _, t := range m.trends {
		trends = append(trends, *t)
	}
	m.mu.RUnlock()

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].GlobalScore != trends[j].GlobalScore {
			return trends[i].GlobalScore > trends[j].GlobalScore
		}
		return trends[i].Slug < trends[j].Slug
	})

	if len(trends) > limit {
		trends = trends[:limit]
	}
	return trends, nil
}

// GetTrendDetail returns a trend with its location scores
func (m *MemoryStore) GetTrendDetail(ctx context.Context, slug string) (*trend.Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trends[trend.NormalizeSlug(slug)]
	if !ok {
		return nil, identity.ErrNotFound
	}

	detail := &trend.Detail{Trend: *t, Locations: []trend.LocationScore{}}
	for _, l := range m.locations {
		score, ok := m.trendLocations[pairKey{trendID: t.ID, locationID: l.ID}]
		if !ok {
			continue
		}
		detail.Locations = append(detail.Locations, trend.LocationScore{State: l.State, LGA: l.LGA, Score: score})
	}

	sort.SliceStable(detail.Locations, func(i, j int) bool {
		a, b := detail.Locations[i], detail.Locations[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.State < b.State
	})

	return detail, nil
}

// SeedInfluencer creates or refreshes a profile keyed by handle
func (m *MemoryStore) SeedInfluencer(ctx context.Context, p influencer.Profile, activity []influencer.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle := p.Influencer.Handle
	if existing, ok := m.influencers[handle]; ok {
		p.Influencer.ID = existing.profile.Influencer.ID
		p.Influencer.CreatedAt = existing.profile.Influencer.CreatedAt
	} else {
		p.Influencer.ID = uuid.NewString()
		if p.Influencer.CreatedAt.IsZero() {
			p.Influencer.CreatedAt = m.now()
		}
	}

	m.influencers[handle] = &memoryInfluencer{
		profile:  p,
		activity: append([]influencer.Activity(nil), activity...),
	}
	return nil
}

// ListInfluencers returns all influencers by total followers, then handle
func (m *MemoryStore) ListInfluencers(ctx context.Context) ([]influencer.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.summaries(func(*memoryInfluencer) bool { return true }), nil
}

// ListShortlist returns shortlisted influencers in list order
func (m *MemoryStore) ListShortlist(ctx context.Context) ([]influencer.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.summaries(func(mi *memoryInfluencer) bool {
		_, ok := m.shortlist[mi.profile.Influencer.ID]
		return ok
	}), nil
}

func (m *MemoryStore) summaries(keep func(*memoryInfluencer) bool) []influencer.Summary {
	out := []influencer.Summary{}
	for _, mi := range m.influencers {
		if !keep(mi) {
			continue
		}
		in := mi.profile.Influencer
		var total int64
		for _, pl := range mi.profile.Platforms {
			total += pl.Followers
		}
		out = append(out, influencer.Summary{
			ID:             in.ID,
			Handle:         in.Handle,
			DisplayName:    in.DisplayName,
			Bio:            in.Bio,
			PrimaryNiche:   in.PrimaryNiche,
			AvatarURL:      in.AvatarURL,
			TotalFollowers: total,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFollowers != out[j].TotalFollowers {
			return out[i].TotalFollowers > out[j].TotalFollowers
		}
		return out[i].Handle < out[j].Handle
	})
	return out
}

// GetProfile returns an influencer with sorted platforms and recent metrics
func (m *MemoryStore) GetProfile(ctx context.Context, handle string) (*influencer.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mi, ok := m.influencers[handle]
	if !ok {
		return nil, identity.ErrNotFound
	}

	p := &influencer.Profile{
		Influencer: mi.profile.Influencer,
		Platforms:  append([]influencer.Platform{}, mi.profile.Platforms...),
		Metrics:    append([]influencer.Metric{}, mi.profile.Metrics...),
	}

	sort.SliceStable(p.Platforms, func(i, j int) bool {
		a, b := p.Platforms[i], p.Platforms[j]
		if a.Followers != b.Followers {
			return a.Followers > b.Followers
		}
		return a.Platform < b.Platform
	})
	sort.SliceStable(p.Metrics, func(i, j int) bool {
		a, b := p.Metrics[i], p.Metrics[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Platform < b.Platform
	})
	if len(p.Metrics) > influencer.RecentMetricDays {
		p.Metrics = p.Metrics[:influencer.RecentMetricDays]
	}

	return p, nil
}

// TrendInfluencers returns influencers active on an existing trend
func (m *MemoryStore) TrendInfluencers(ctx context.Context, slug string) ([]influencer.Impact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slug = trend.NormalizeSlug(slug)
	out := []influencer.Impact{}
	if _, ok := m.trends[slug]; !ok {
		return out, nil
	}

	for _, mi := range m.influencers {
		for _, a := range mi.activity {
			if trend.NormalizeSlug(a.TrendSlug) != slug {
				continue
			}
			in := mi.profile.Influencer
			out = append(out, influencer.Impact{
				Handle:          in.Handle,
				DisplayName:     in.DisplayName,
				PrimaryNiche:    in.PrimaryNiche,
				EstimatedReach:  a.EstimatedReach,
				EngagementScore: a.EngagementScore,
				PrimaryState:    m.knownState(a.State),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].EstimatedReach != out[j].EstimatedReach {
			return out[i].EstimatedReach > out[j].EstimatedReach
		}
		if out[i].EngagementScore != out[j].EngagementScore {
			return out[i].EngagementScore > out[j].EngagementScore
		}
		return out[i].Handle < out[j].Handle
	})
	return out, nil
}

// knownState mirrors the left join on locations: states that are not seeded read as null.
func (m *MemoryStore) knownState(state *string) *string {
	if state == nil {
		return nil
	}
	for _, l := range m.locations {
		if l.LGA == nil && l.State == *state {
			s := l.State
			return &s
		}
	}
	return nil
}

// ResolveInfluencer returns the ID of the influencer with the given handle
func (m *MemoryStore) ResolveInfluencer(ctx context.Context, handle string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if mi, ok := m.influencers[strings.TrimSpace(handle)]; ok {
		return mi.profile.Influencer.ID, nil
	}
	return "", identity.ErrNotFound
}

// AddShortlistItem shortlists the influencer once
func (m *MemoryStore) AddShortlistItem(ctx context.Context, influencerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shortlist[influencerID]; !ok {
		m.shortlist[influencerID] = m.now()
	}
	return nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
