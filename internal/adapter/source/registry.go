package source

import (
	"fmt"
	"time"

	"spykes/internal/config"
)

// Names lists every source tag in display order.
func Names() []string {
	return []string{"demo", "google-demo", "tiktok", "x", "reddit", "youtube", "google", "google-rss"}
}

// Describe returns a one-line summary for a source tag.
func Describe(name string) string {
	switch name {
	case "demo":
		return "Ingest the built-in demo trends and their state scores"
	case "google-demo":
		return "Ingest a bundled Google Trends snapshot"
	case "tiktok":
		return "Ingest trending TikTok hashtags via RapidAPI"
	case "x":
		return "Ingest trending X topics via RapidAPI"
	case "reddit":
		return "Ingest hot posts from a subreddit listing"
	case "youtube":
		return "Ingest trending YouTube videos"
	case "google":
		return "Ingest Google daily trending searches via RapidAPI"
	case "google-rss":
		return "Ingest the public Google Trends RSS feed"
	default:
		return ""
	}
}

// wrap keeps a failed constructor from returning a typed nil Source.
func wrap[S Source](s S, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New builds the source selected by tag.
func New(name string, cfg config.SourcesConfig, now func() time.Time) (Source, error) {
	switch name {
	case "demo":
		return NewDemo(), nil
	case "google-demo":
		return NewGoogleDemo(), nil
	case "tiktok":
		return wrap(NewTikTok(cfg))
	case "x":
		return wrap(NewX(cfg))
	case "reddit":
		return wrap(NewReddit(cfg))
	case "youtube":
		return wrap(NewYouTube(cfg))
	case "google":
		return wrap(NewGoogle(cfg, now))
	case "google-rss":
		return wrap(NewGoogleRSS(cfg))
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}
