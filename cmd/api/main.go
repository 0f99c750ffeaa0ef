// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spykes/internal/adapter/messaging"
	"spykes/internal/app"
	"spykes/internal/config"
	"spykes/internal/logger"
	"spykes/internal/server"
	"spykes/internal/service/shortlist"
	"spykes/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "spykes-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.GetLogger("api")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// Initialize storage
	store, closeStore, err := app.OpenStore(ctx, cfg.Database, logger.GetLogger("storage"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	if cfg.Database.Driver == config.DriverMemory {
		if err := app.LoadDemoData(ctx, store, logger.GetLogger("ingest")); err != nil {
			return err
		}
	}

	natsConn, err := messaging.Connect(cfg.NATS, logger.GetLogger("nats"))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	} else {
		log.Info("NATS_URL not set, live trend feed disabled")
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Deps{
		Store:       store,
		Shortlist:   shortlist.NewService(store, logger.GetLogger("shortlist")),
		NATS:        natsConn,
		EventsTopic: cfg.NATS.EventsTopic,
		Log:         logger.GetLogger("http"),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port, "store", cfg.Database.Driver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-shutdown:
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		log.Errorw("HTTP server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Warnw("Tracer shutdown error", "error", err)
	}

	log.Info("Shutdown complete")
	return nil
}
