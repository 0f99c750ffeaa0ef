package cli

import (
	"fmt"
	"io"
	"strings"

	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
)

func printTrends(w io.Writer, trends []trend.Summary) {
	if len(trends) == 0 {
		fmt.Fprintln(w, "No trends found.")
		return
	}

	width := len("Slug")
	for _, t := range trends {
		width = max(width, len(t.Slug))
	}

	fmt.Fprintf(w, "%-*s  %6s  %-8s  %-6s  %-8s  %s\n", width, "Slug", "Score", "Momentum", "Window", "Source", "Title")
	for _, t := range trends {
		fmt.Fprintf(w, "%-*s  %6.1f  %-8s  %-6s  %-8s  %s\n",
			width, t.Slug, t.GlobalScore, t.Momentum, t.Window, trend.Badge(t.Source), t.Title)
	}
}

func printTrendDetail(w io.Writer, d *trend.Detail, impacts []influencer.Impact) {
	t := d.Trend
	fmt.Fprintf(w, "%s (%s)\n", t.Title, t.Slug)
	if t.Description != "" {
		fmt.Fprintf(w, "%s\n", t.Description)
	}
	fmt.Fprintf(w, "score %.1f  momentum %s  source %s  kind %s\n",
		t.GlobalScore, trend.MomentumFor(t.GlobalScore), trend.Badge(t.Source), trend.Badge(t.Kind))
	fmt.Fprintf(w, "first seen %s  last seen %s\n\n",
		t.FirstSeenAt.Format("2006-01-02 15:04"), t.LastSeenAt.Format("2006-01-02 15:04"))

	fmt.Fprintln(w, "Locations")
	if len(d.Locations) == 0 {
		fmt.Fprintln(w, "  No location data yet.")
	}
	for _, l := range d.Locations {
		fmt.Fprintf(w, "  %-24s %6.1f\n", locationLabel(l), l.Score)
	}

	fmt.Fprintln(w, "\nInfluencers")
	if len(impacts) == 0 {
		fmt.Fprintln(w, "  No influencer activity yet.")
	}
	for _, im := range impacts {
		fmt.Fprintf(w, "  @%-20s reach %-9d engagement %4.1f  %s\n",
			im.Handle, im.EstimatedReach, im.EngagementScore, orDash(im.PrimaryState))
	}
}

func printInfluencers(w io.Writer, list []influencer.Summary, empty string) {
	if len(list) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	width := len("Handle")
	for _, s := range list {
		width = max(width, len(s.Handle)+1)
	}

	fmt.Fprintf(w, "%-*s  %10s  %-16s  %s\n", width, "Handle", "Followers", "Niche", "Name")
	for _, s := range list {
		fmt.Fprintf(w, "%-*s  %10s  %-16s  %s\n",
			width, "@"+s.Handle, compact(s.TotalFollowers), orDash(s.PrimaryNiche), orDash(s.DisplayName))
	}
}

func printProfile(w io.Writer, p *influencer.Profile) {
	in := p.Influencer
	fmt.Fprintf(w, "@%s  %s\n", in.Handle, orDash(in.DisplayName))
	fmt.Fprintf(w, "niche %s\n", orDash(in.PrimaryNiche))
	if in.Bio != nil && *in.Bio != "" {
		fmt.Fprintf(w, "%s\n", *in.Bio)
	}

	fmt.Fprintln(w, "\nPlatforms")
	if len(p.Platforms) == 0 {
		fmt.Fprintln(w, "  No platforms linked.")
	}
	for _, pl := range p.Platforms {
		fmt.Fprintf(w, "  %-10s %10s  %s\n", pl.Platform, compact(pl.Followers), orDash(pl.PlatformURL))
	}

	fmt.Fprintln(w, "\nRecent activity")
	if len(p.Metrics) == 0 {
		fmt.Fprintln(w, "  No metrics yet.")
	}
	for _, m := range p.Metrics {
		fmt.Fprintf(w, "  %s  %-10s reach %-9d mentions %-4d impressions %d\n",
			m.Date.Format("2006-01-02"), m.Platform, m.Reach, m.Mentions, m.TrendImpressions)
	}
}

func locationLabel(l trend.LocationScore) string {
	if l.LGA == nil {
		return l.State
	}
	return l.State + " / " + *l.LGA
}

// compact renders follower counts as 343k or 1.2M.
func compact(n int64) string {
	switch {
	case n >= 1_000_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000_000), ".0") + "M"
	case n >= 1_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000), ".0") + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
