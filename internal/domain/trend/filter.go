package trend

import "strings"

// Momentum buckets a trend by its global score
type Momentum string

const (
	MomentumAll     Momentum = "all"
	MomentumRising  Momentum = "rising"
	MomentumStable  Momentum = "stable"
	MomentumCooling Momentum = "cooling"
)

// Window is the recency bucket a score maps to on the dashboard
type Window string

const (
	Window24h   Window = "24h"
	WindowToday Window = "today"
	Window7d    Window = "7d"
	WindowAll   Window = "all"
)

// Valid reports whether m is a known momentum, all or empty.
func (m Momentum) Valid() bool {
	switch m {
	case "", MomentumAll, MomentumRising, MomentumStable, MomentumCooling:
		return true
	}
	return false
}

// Valid reports whether w is a known window or empty.
func (w Window) Valid() bool {
	switch w {
	case "", Window24h, WindowToday, Window7d, WindowAll:
		return true
	}
	return false
}

// MomentumFor maps a score to its momentum bucket.
func MomentumFor(score float64) Momentum {
	switch {
	case score >= 80:
		return MomentumRising
	case score <= 60:
		return MomentumCooling
	default:
		return MomentumStable
	}
}

// WindowFor maps a score to the tightest window it qualifies for.
func WindowFor(score float64) Window {
	switch {
	case score >= 85:
		return Window24h
	case score >= 70:
		return WindowToday
	case score >= 60:
		return Window7d
	default:
		return WindowAll
	}
}

// Badge returns a display label for a source or kind tag.
func Badge(tag *string) string {
	if tag == nil || strings.TrimSpace(*tag) == "" {
		return "unknown"
	}
	return strings.ToLower(strings.TrimSpace(*tag))
}

// Summary is a list row enriched with derived dashboard buckets
type Summary struct {
	Trend
	Momentum Momentum `json:"momentum"`
	Window   Window   `json:"window"`
}

// Filter narrows a trend list. Zero values match everything.
type Filter struct {
	Query    string
	Momentum Momentum
	Window   Window
}

// Matches reports whether t passes every set criterion. Momentum and window
// match the trend's own bucket exactly; all disables either check.
func (f Filter) Matches(t Trend) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(t.Title + " " + t.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if f.Momentum != "" && f.Momentum != MomentumAll && MomentumFor(t.GlobalScore) != f.Momentum {
		return false
	}
	if f.Window != "" && f.Window != WindowAll && WindowFor(t.GlobalScore) != f.Window {
		return false
	}
	return true
}

// Summarize filters trends and attaches derived buckets, preserving order.
func Summarize(trends []Trend, f Filter) []Summary {
	out := make([]Summary, 0, len(trends))
	for _, t := range trends {
		if !f.Matches(t) {
			continue
		}
		out = append(out, Summary{
			Trend:    t,
			Momentum: MomentumFor(t.GlobalScore),
			Window:   WindowFor(t.GlobalScore),
		})
	}
	return out
}
