package cli

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"spykes/internal/adapter/storage"
	"spykes/internal/config"
	"spykes/internal/logger"
	"spykes/internal/service/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema",
	Args:  cobra.NoArgs,
	RunE:  migrateAction,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
}

var seedLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Insert the reference Nigerian states and LGAs",
	Args:  cobra.NoArgs,
	RunE:  seedLocationsAction,
}

var seedInfluencersCmd = &cobra.Command{
	Use:   "influencers",
	Short: "Insert the sample influencers and their trend activity",
	Args:  cobra.NoArgs,
	RunE:  seedInfluencersAction,
}

func init() {
	seedCmd.AddCommand(seedLocationsCmd, seedInfluencersCmd)
	rootCmd.AddCommand(migrateCmd, seedCmd)
}

func migrateAction(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		fmt.Fprintf(cmd.OutOrStdout(), "store driver %q has no schema to migrate\n", cfg.Database.Driver)
		return nil
	}

	ctx := cmd.Context()
	pool, err := storage.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.GetLogger("storage").Info("Database schema is up to date")
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}

func seedLocationsAction(cmd *cobra.Command, _ []string) error {
	pool, closePool, err := openPostgres(cmd)
	if err != nil {
		return err
	}
	defer closePool()

	added, err := seed.Locations(cmd.Context(), storage.NewTrendStore(pool))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d locations\n", added)
	return nil
}

func seedInfluencersAction(cmd *cobra.Command, _ []string) error {
	pool, closePool, err := openPostgres(cmd)
	if err != nil {
		return err
	}
	defer closePool()

	n, err := seed.Influencers(cmd.Context(), storage.NewInfluencerStore(pool), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d influencers\n", n)
	return nil
}

// openPostgres connects to the configured database. Seeding a memory store
// would not outlive the command, so other drivers are rejected.
func openPostgres(cmd *cobra.Command) (*pgxpool.Pool, func(), error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, nil, fmt.Errorf("seeding requires STORE_DRIVER=%s, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	pool, err := storage.Connect(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}
