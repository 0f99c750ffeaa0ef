package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"spykes/internal/adapter/source"
	"spykes/internal/domain/messaging"
	"spykes/internal/telemetry"
)

// RunnerConfig holds runner settings
type RunnerConfig struct {
	// LogPayloadBytes caps how much of the raw payload is logged. Zero disables it.
	LogPayloadBytes int
}

// Runner performs one fetch-normalize-upsert cycle for a source
type Runner struct {
	engine    *Engine
	publisher messaging.Publisher
	log       *zap.SugaredLogger
	config    RunnerConfig
	now       func() time.Time
}

// Report describes a finished run
type Report struct {
	RunID     string        `json:"run_id"`
	Source    string        `json:"source"`
	Fetched   int           `json:"fetched"`
	Trends    Result        `json:"trends"`
	Locations Result        `json:"locations"`
	Duration  time.Duration `json:"duration"`
}

// NewRunner creates a runner. A nil publisher drops events.
func NewRunner(engine *Engine, publisher messaging.Publisher, log *zap.SugaredLogger, cfg RunnerConfig) *Runner {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Runner{
		engine:    engine,
		publisher: publisher,
		log:       log,
		config:    cfg,
		now:       time.Now,
	}
}

// Run fetches, normalizes and writes one batch from src. Errors from fetch,
// normalize or storage fail the run; event publication failures do not.
func (r *Runner) Run(ctx context.Context, src source.Source) (Report, error) {
	start := r.now()
	report := Report{RunID: uuid.NewString(), Source: src.Name()}
	log := r.log.With("run_id", report.RunID, "source", report.Source)

	ctx, span := tracer.Start(ctx, "ingest.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("ingest.run_id", report.RunID),
		attribute.String("ingest.source", report.Source),
	)

	err := r.run(ctx, src, &report, log)
	report.Duration = r.now().Sub(start)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion failed")
		log.Errorw("Ingestion failed", "error", err, "duration", report.Duration)
	} else {
		telemetry.IngestLastSuccess.WithLabelValues(report.Source).SetToCurrentTime()
		log.Infow("Ingestion complete",
			"fetched", report.Fetched,
			"trends_upserted", report.Trends.Upserted,
			"trends_skipped", report.Trends.Skipped,
			"locations_upserted", report.Locations.Upserted,
			"locations_skipped", report.Locations.Skipped,
			"duration", report.Duration,
		)
	}

	telemetry.IngestRunsTotal.WithLabelValues(report.Source, status).Inc()
	telemetry.IngestRunDuration.WithLabelValues(report.Source).Observe(report.Duration.Seconds())
	recordItems(report.Source, "trend", report.Trends)
	recordItems(report.Source, "location", report.Locations)

	return report, err
}

func (r *Runner) run(ctx context.Context, src source.Source, report *Report, log *zap.SugaredLogger) error {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", src.Name(), err)
	}
	if r.config.LogPayloadBytes > 0 {
		log.Debugw("Fetched raw payload", "bytes", len(raw), "payload", truncate(raw, r.config.LogPayloadBytes))
	}

	batch, err := src.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", src.Name(), err)
	}
	report.Fetched = len(batch.Trends)
	log.Infow("Normalized payload", "trends", len(batch.Trends), "locations", len(batch.Locations))

	if len(batch.Trends) == 0 {
		log.Info("No trends to upsert")
		return nil
	}

	report.Trends, err = r.engine.UpsertTrends(ctx, batch.Trends)
	if err != nil {
		return err
	}

	report.Locations, err = r.engine.UpsertTrendLocations(ctx, batch.Locations)
	if err != nil {
		return err
	}

	slugs := make([]string, 0, len(batch.Trends))
	for _, t := range batch.Trends {
		slugs = append(slugs, t.Slug)
	}

	event := messaging.IngestionEvent{
		Type:              messaging.EventIngested,
		RunID:             report.RunID,
		Source:            report.Source,
		Fetched:           report.Fetched,
		TrendsUpserted:    report.Trends.Upserted,
		TrendsSkipped:     report.Trends.Skipped,
		LocationsUpserted: report.Locations.Upserted,
		LocationsSkipped:  report.Locations.Skipped,
		Slugs:             slugs,
		CompletedAt:       r.now().UTC(),
	}
	if err := r.publisher.PublishIngestion(ctx, event); err != nil {
		log.Warnw("Failed to publish ingestion event", "error", err)
	}

	return nil
}

func recordItems(src, kind string, res Result) {
	if res.Upserted > 0 {
		telemetry.IngestItemsTotal.WithLabelValues(src, kind, "upserted").Add(float64(res.Upserted))
	}
	if res.Skipped > 0 {
		telemetry.IngestItemsTotal.WithLabelValues(src, kind, "skipped").Add(float64(res.Skipped))
	}
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}

type nopPublisher struct{}

func (nopPublisher) PublishIngestion(context.Context, messaging.IngestionEvent) error { return nil }
