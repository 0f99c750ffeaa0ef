package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spykes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spykes_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spykes_http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spykes_ingest_runs_total",
			Help: "Ingestion runs by source and outcome",
		},
		[]string{"source", "status"},
	)

	// kind is "trend" or "location", outcome is "upserted" or "skipped"
	IngestItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spykes_ingest_items_total",
			Help: "Normalized items written or skipped during ingestion",
		},
		[]string{"source", "kind", "outcome"},
	)

	IngestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spykes_ingest_run_duration_seconds",
			Help:    "Wall time of an ingestion run",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	IngestLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spykes_ingest_last_success_timestamp_seconds",
			Help: "Unix time of the last successful ingestion run",
		},
		[]string{"source"},
	)
)

// PushIngestMetrics sends the ingestion collectors to a Prometheus pushgateway.
// A blank url is a no-op.
func PushIngestMetrics(ctx context.Context, url, source string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, "spykes_ingest").
		Grouping("run_source", source).
		Collector(IngestRunsTotal).
		Collector(IngestItemsTotal).
		Collector(IngestRunDuration).
		Collector(IngestLastSuccess).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("error pushing metrics to %s: %w", url, err)
	}
	return nil
}
