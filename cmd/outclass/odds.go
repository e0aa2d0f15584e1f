package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/outclass-odds/internal/oddsapi"
)

var (
	oddsSport   string
	oddsRegion  string
	oddsMarket  string
	oddsAnalyze bool
	oddsStake   float64
)

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Fetch events from The Odds API",
	Long:  `Fetch current events for a sport and print them, or their arbitrage analysis with --analyze.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOddsClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		market := valueOr(oddsMarket, cfg.OddsAPI.DefaultMarket)
		events, err := client.FetchOdds(cmd.Context(), oddsapi.Query{
			Sport:   valueOr(oddsSport, cfg.OddsAPI.DefaultSport),
			Regions: valueOr(oddsRegion, cfg.OddsAPI.DefaultRegion),
			Markets: market,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch odds: %w", err)
		}

		if !oddsAnalyze {
			return printJSON(cmd.OutOrStdout(), events)
		}

		runStake, err := resolveStake(cmd.Flags().Changed("stake"), oddsStake)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), newAnalyzer().AnalyzeBatch(events, market, runStake))
	},
}

func init() {
	oddsCmd.Flags().StringVar(&oddsSport, "sport", "", "Sport key, e.g. soccer_epl (default from config)")
	oddsCmd.Flags().StringVar(&oddsRegion, "region", "", "Bookmaker regions, e.g. us or us,uk (default from config)")
	oddsCmd.Flags().StringVar(&oddsMarket, "market", "", "Market key (default from config)")
	oddsCmd.Flags().BoolVar(&oddsAnalyze, "analyze", false, "Print arbitrage analysis instead of raw events")
	oddsCmd.Flags().Float64Var(&oddsStake, "stake", 100, "Total stake when analyzing")
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
