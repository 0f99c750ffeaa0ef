// internal/domain/messaging/service.go

package messaging

import (
	"context"
	"time"
)

// EventType identifies an event published on the trend topic
type EventType string

const (
	// EventIngested is published after an ingestion run writes its batch
	EventIngested EventType = "ingested"
)

// IngestionEvent summarizes one completed ingestion run
type IngestionEvent struct {
	Type              EventType `json:"type"`
	RunID             string    `json:"run_id"`
	Source            string    `json:"source"`
	Fetched           int       `json:"fetched"`
	TrendsUpserted    int       `json:"trends_upserted"`
	TrendsSkipped     int       `json:"trends_skipped"`
	LocationsUpserted int       `json:"locations_upserted"`
	LocationsSkipped  int       `json:"locations_skipped"`
	Slugs             []string  `json:"slugs"`
	CompletedAt       time.Time `json:"completed_at"`
}

// Publisher delivers events to subscribers of the trend topic
type Publisher interface {
	// PublishIngestion announces a finished ingestion run
	PublishIngestion(ctx context.Context, event IngestionEvent) error
}

// Subject returns the subject an event type is published on under topic
func Subject(topic string, t EventType) string {
	return topic + "." + string(t)
}

// Wildcard returns the subject pattern matching every event under topic
func Wildcard(topic string) string {
	return topic + ".>"
}
