// Package app wires configuration into the stores and services shared by the
// API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"spykes/internal/adapter/source"
	"spykes/internal/adapter/storage"
	"spykes/internal/config"
	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/service/ingest"
	"spykes/internal/service/seed"
)

// Store is the full storage surface, implemented by Postgres and the memory store
type Store interface {
	identity.Resolver
	trend.Reader
	trend.Writer
	trend.LocationSeeder
	influencer.Reader
	influencer.ShortlistStore
	influencer.Seeder
	Ping(ctx context.Context) error
}

var (
	_ Store = (*storage.PostgresStore)(nil)
	_ Store = (*storage.MemoryStore)(nil)
)

// OpenStore opens the configured store. The returned close func is never nil.
// The memory store starts with the reference locations loaded.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.SugaredLogger) (Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := storage.NewMemoryStore()
		if _, err := seed.Locations(ctx, store); err != nil {
			return nil, func() {}, err
		}
		log.Info("Using in-memory store")
		return store, func() {}, nil

	case config.DriverPostgres, "":
		pool, err := storage.Connect(ctx, cfg)
		if err != nil {
			return nil, func() {}, err
		}
		if cfg.AutoMigrate {
			if err := storage.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, func() {}, fmt.Errorf("migrate: %w", err)
			}
			log.Info("Database schema is up to date")
		}
		store := storage.NewPostgresStore(pool)
		return store, store.Close, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// LoadDemoData ingests the bundled demo and Google snapshot trends, then the
// sample influencers linked to them.
func LoadDemoData(ctx context.Context, store Store, log *zap.SugaredLogger) error {
	runner := ingest.NewRunner(ingest.NewEngine(store, log), nil, log, ingest.RunnerConfig{})
	for _, src := range []source.Source{source.NewDemo(), source.NewGoogleDemo()} {
		if _, err := runner.Run(ctx, src); err != nil {
			return fmt.Errorf("load %s data: %w", src.Name(), err)
		}
	}

	n, err := seed.Influencers(ctx, store, time.Now())
	if err != nil {
		return err
	}
	log.Infow("Loaded demo data", "influencers", n)
	return nil
}
