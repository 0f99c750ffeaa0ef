package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	natsadapter "spykes/internal/adapter/messaging"
	"spykes/internal/adapter/source"
	"spykes/internal/app"
	"spykes/internal/config"
	"spykes/internal/domain/messaging"
	"spykes/internal/logger"
	"spykes/internal/service/ingest"
	"spykes/internal/telemetry"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch trends from a source and upsert them",
}

func init() {
	for _, name := range source.Names() {
		name := name
		ingestCmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: source.Describe(name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := setup()
				if err != nil {
					return err
				}
				return runIngest(cmdContext(cmd), cmd.OutOrStdout(), cfg, name)
			},
		})
	}
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx context.Context, w io.Writer, cfg config.Config, name string) error {
	log := logger.GetLogger("ingest")

	src, err := source.New(name, cfg.Sources, time.Now)
	if err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Warnw("Tracer shutdown error", "error", err)
		}
	}()

	store, closeStore, err := app.OpenStore(ctx, cfg.Database, logger.GetLogger("storage"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	var publisher messaging.Publisher = natsadapter.NopPublisher{}
	conn, err := natsadapter.Connect(cfg.NATS, logger.GetLogger("nats"))
	if err != nil {
		// Events are best effort; the run still writes to the store.
		log.Warnw("NATS unavailable, ingestion events disabled", "error", err)
	} else if conn != nil {
		defer conn.Close()
		publisher = natsadapter.NewNATSPublisher(conn, cfg.NATS.EventsTopic)
	}

	runner := ingest.NewRunner(ingest.NewEngine(store, log), publisher, log, ingest.RunnerConfig{
		LogPayloadBytes: cfg.Sources.LogRawPayloadBytes,
	})
	report, runErr := runner.Run(ctx, src)

	if err := telemetry.PushIngestMetrics(ctx, cfg.Telemetry.PushgatewayURL, name); err != nil {
		log.Warnw("Failed to push ingestion metrics", "error", err)
	}

	if runErr != nil {
		return runErr
	}
	printReport(w, report)
	return nil
}

func printReport(w io.Writer, r ingest.Report) {
	fmt.Fprintf(w, "%s: fetched %d, trends %d upserted / %d skipped, locations %d upserted / %d skipped (%s)\n",
		r.Source, r.Fetched,
		r.Trends.Upserted, r.Trends.Skipped,
		r.Locations.Upserted, r.Locations.Skipped,
		r.Duration.Round(time.Millisecond),
	)
}
