// Package cli provides the spykes command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spykes/internal/config"
	"spykes/internal/logger"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// apiURL overrides APP_URL for the read commands.
var apiURL string

var rootCmd = &cobra.Command{
	Use:           "spykes",
	Short:         "Trend intelligence for Nigerian social media",
	Long:          "spykes ingests trending topics from social and search sources, scores them per state and serves them to the dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spykes %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "read API base URL (default $APP_URL)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

// setup loads configuration and initializes the global logger.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	// An unknown level falls back to info.
	_ = logger.Init(cfg.Log.Level, cfg.Log.Format)

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, nil
}
