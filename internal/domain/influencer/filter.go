package influencer

import "strings"

// Band is a follower-count range
type Band string

const (
	BandAll       Band = "all"
	BandUpTo50k   Band = "0-50k"
	Band50kTo200k Band = "50k-200k"
	Band200kPlus  Band = "200k-plus"
)

// Valid reports whether b is a known band. The empty band means all.
func (b Band) Valid() bool {
	switch b {
	case "", BandAll, BandUpTo50k, Band50kTo200k, Band200kPlus:
		return true
	}
	return false
}

// Contains reports whether a follower count falls in the band.
func (b Band) Contains(followers int64) bool {
	switch b {
	case BandUpTo50k:
		return followers <= 50_000
	case Band50kTo200k:
		return followers > 50_000 && followers <= 200_000
	case Band200kPlus:
		return followers > 200_000
	default:
		return true
	}
}

// Filter narrows an influencer list. Zero values match everything.
type Filter struct {
	Query string
	Niche string
	Band  Band
}

// Matches reports whether s passes every set criterion.
func (f Filter) Matches(s Summary) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{s.Handle, deref(s.DisplayName), deref(s.Bio)}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if n := strings.ToLower(strings.TrimSpace(f.Niche)); n != "" && n != "all" {
		if !strings.Contains(strings.ToLower(deref(s.PrimaryNiche)), n) {
			return false
		}
	}
	return f.Band.Contains(s.TotalFollowers)
}

// Apply returns the matching summaries in their original order.
func (f Filter) Apply(in []Summary) []Summary {
	out := make([]Summary, 0, len(in))
	for _, s := range in {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
