// Package ingest writes normalized trend batches to storage and drives
// end-to-end ingestion runs.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/trend"
)

var tracer = otel.Tracer("spykes/internal/service/ingest")

// Store is the storage the engine writes through
type Store interface {
	trend.Writer
	ResolveTrend(ctx context.Context, slug string) (string, error)
	ResolveLocation(ctx context.Context, state string, lga *string) (string, error)
}

// Result counts what happened to a batch
type Result struct {
	Processed int `json:"processed"`
	Upserted  int `json:"upserted"`
	Skipped   int `json:"skipped"`
}

// Engine applies batches in input order, one item at a time
type Engine struct {
	store Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewEngine creates a new upsert engine
func NewEngine(store Store, log *zap.SugaredLogger) *Engine {
	return &Engine{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// UpsertTrends inserts or refreshes each trend by slug. Malformed items are
// skipped; the first storage error stops the batch.
func (e *Engine) UpsertTrends(ctx context.Context, inputs []trend.Input) (Result, error) {
	ctx, span := tracer.Start(ctx, "ingest.upsert_trends")
	defer span.End()

	var res Result
	seenAt := e.now().UTC()

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		if reason := invalidTrend(in); reason != "" {
			res.Skipped++
			e.log.Warnw("Skipping trend", "index", i, "slug", in.Slug, "reason", reason)
			continue
		}

		if err := e.store.UpsertTrend(ctx, in, seenAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "upsert failed")
			return res, fmt.Errorf("upsert trend %q: %w", in.Slug, err)
		}
		res.Upserted++
	}

	span.SetAttributes(
		attribute.Int("ingest.processed", res.Processed),
		attribute.Int("ingest.upserted", res.Upserted),
		attribute.Int("ingest.skipped", res.Skipped),
	)
	return res, nil
}

// UpsertTrendLocations replaces each (trend, location) score. Items whose trend
// or location cannot be resolved are skipped; other errors stop the batch.
func (e *Engine) UpsertTrendLocations(ctx context.Context, inputs []trend.LocationInput) (Result, error) {
	ctx, span := tracer.Start(ctx, "ingest.upsert_trend_locations")
	defer span.End()

	var res Result

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		if reason := invalidLocation(in); reason != "" {
			res.Skipped++
			e.log.Warnw("Skipping trend location", "index", i, "slug", in.TrendSlug, "state", in.State, "reason", reason)
			continue
		}

		trendID, err := e.store.ResolveTrend(ctx, in.TrendSlug)
		if errors.Is(err, identity.ErrNotFound) {
			res.Skipped++
			e.log.Warnw("Trend not found for location score", "slug", in.TrendSlug)
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolve trend failed")
			return res, fmt.Errorf("resolve trend %q: %w", in.TrendSlug, err)
		}

		locationID, err := e.store.ResolveLocation(ctx, in.State, in.LGA)
		if errors.Is(err, identity.ErrNotFound) {
			res.Skipped++
			e.log.Warnw("Location not found", "state", in.State, "lga", lgaField(in.LGA))
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolve location failed")
			return res, fmt.Errorf("resolve location %q: %w", in.State, err)
		}

		if err := e.store.ReplaceTrendLocation(ctx, trendID, locationID, in.Score); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "replace failed")
			return res, fmt.Errorf("replace trend location %q/%q: %w", in.TrendSlug, in.State, err)
		}
		res.Upserted++
	}

	span.SetAttributes(
		attribute.Int("ingest.processed", res.Processed),
		attribute.Int("ingest.upserted", res.Upserted),
		attribute.Int("ingest.skipped", res.Skipped),
	)
	return res, nil
}

func invalidTrend(in trend.Input) string {
	switch {
	case trend.NormalizeSlug(in.Slug) == "":
		return "empty slug"
	case strings.TrimSpace(in.Title) == "":
		return "empty title"
	case !finite(in.GlobalScore):
		return "score is not a finite number"
	}
	return ""
}

func invalidLocation(in trend.LocationInput) string {
	switch {
	case trend.NormalizeSlug(in.TrendSlug) == "":
		return "empty trend slug"
	case strings.TrimSpace(in.State) == "":
		return "empty state"
	case !finite(in.Score):
		return "score is not a finite number"
	}
	return ""
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func lgaField(lga *string) string {
	if lga == nil {
		return "<none>"
	}
	return *lga
}
