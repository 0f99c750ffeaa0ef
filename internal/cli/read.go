package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"spykes/internal/apiclient"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/logger"
)

var (
	trendQuery    string
	trendMomentum string
	trendWindow   string

	influencerQuery string
	influencerNiche string
	influencerBand  string
)

var trendsCmd = &cobra.Command{
	Use:   "trends [slug]",
	Short: "List trends, or show one trend with its states and influencers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  trendsAction,
}

var influencersCmd = &cobra.Command{
	Use:   "influencers [handle]",
	Short: "List influencers, or show one profile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  influencersAction,
}

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Show the campaign shortlist",
	Args:  cobra.NoArgs,
	RunE:  shortlistAction,
}

var shortlistAddCmd = &cobra.Command{
	Use:   "add <handle>",
	Short: "Add an influencer to the shortlist",
	Args:  cobra.ExactArgs(1),
	RunE:  shortlistAddAction,
}

func init() {
	trendsCmd.Flags().StringVarP(&trendQuery, "query", "q", "", "match title or description")
	trendsCmd.Flags().StringVar(&trendMomentum, "momentum", "", "all, rising, stable or cooling")
	trendsCmd.Flags().StringVar(&trendWindow, "window", "", "24h, today, 7d or all")

	for _, cmd := range []*cobra.Command{influencersCmd, shortlistCmd} {
		cmd.Flags().StringVarP(&influencerQuery, "query", "q", "", "match handle, name or bio")
		cmd.Flags().StringVar(&influencerNiche, "niche", "", "primary niche contains")
		cmd.Flags().StringVar(&influencerBand, "band", "", "0-50k, 50k-200k or 200k-plus")
	}

	shortlistCmd.AddCommand(shortlistAddCmd)
	rootCmd.AddCommand(trendsCmd, influencersCmd, shortlistCmd)
}

func newClient() (*apiclient.Client, error) {
	cfg, err := setup()
	if err != nil {
		return nil, err
	}
	return apiclient.New(cfg.API.BaseURL, cfg.API.Timeout), nil
}

func influencerFilter() influencer.Filter {
	return influencer.Filter{Query: influencerQuery, Niche: influencerNiche, Band: influencer.Band(influencerBand)}
}

func trendsAction(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, w := cmdContext(cmd), cmd.OutOrStdout()

	if len(args) == 1 {
		showTrend(ctx, w, client, args[0])
		return nil
	}

	trends, err := client.ListTrends(ctx, trend.Filter{
		Query:    trendQuery,
		Momentum: trend.Momentum(trendMomentum),
		Window:   trend.Window(trendWindow),
	})
	if err != nil {
		logger.GetLogger("cli").Warnw("Failed to load trends", "error", err)
	}
	printTrends(w, trends)
	return nil
}

func showTrend(ctx context.Context, w io.Writer, client *apiclient.Client, slug string) {
	log := logger.GetLogger("cli")

	detail, err := client.GetTrend(ctx, slug)
	if err != nil {
		log.Warnw("Failed to load trend", "slug", slug, "error", err)
		fmt.Fprintln(w, "Trend not found.")
		return
	}

	impacts, err := client.TrendInfluencers(ctx, slug)
	if err != nil {
		log.Warnw("Failed to load trend influencers", "slug", slug, "error", err)
		impacts = nil
	}
	printTrendDetail(w, detail, impacts)
}

func influencersAction(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, w := cmdContext(cmd), cmd.OutOrStdout()
	log := logger.GetLogger("cli")

	if len(args) == 1 {
		profile, err := client.GetInfluencer(ctx, args[0])
		if err != nil {
			log.Warnw("Failed to load influencer", "handle", args[0], "error", err)
			fmt.Fprintln(w, "Influencer not found.")
			return nil
		}
		printProfile(w, profile)
		return nil
	}

	list, err := client.ListInfluencers(ctx, influencerFilter())
	if err != nil {
		log.Warnw("Failed to load influencers", "error", err)
	}
	printInfluencers(w, list, "No influencers found for this search or filter.")
	return nil
}

func shortlistAction(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	list, err := client.ListShortlist(cmdContext(cmd), influencerFilter())
	if err != nil {
		logger.GetLogger("cli").Warnw("Failed to load shortlist", "error", err)
	}
	printInfluencers(cmd.OutOrStdout(), list, "No influencers in shortlist yet.")
	return nil
}

func shortlistAddAction(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	handle := strings.TrimSpace(args[0])
	if err := client.AddToShortlist(cmdContext(cmd), handle); err != nil {
		return fmt.Errorf("add %s to shortlist: %w", handle, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s to shortlist\n", handle)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
