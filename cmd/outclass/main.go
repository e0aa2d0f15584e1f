// Package main provides the outclass command: the arbitrage API server and
// one-shot analysis tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/config"
	applogger "github.com/yourusername/outclass-odds/internal/logger"
	"github.com/yourusername/outclass-odds/internal/metrics"
	"github.com/yourusername/outclass-odds/internal/oddsapi"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "outclass",
	Short:         "Cross-bookmaker arbitrage detection",
	Long:          `Find risk-free stake splits across bookmakers' odds, served over HTTP or run one-off from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		var opts []applogger.Option
		if cmd != serveCmd {
			// stdout carries the JSON output of one-shot commands
			opts = append(opts, applogger.WithOutput(cmd.ErrOrStderr()))
		}
		appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment, opts...)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default config/config.yaml)")
	rootCmd.AddCommand(serveCmd, analyzeCmd, oddsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	// A missing .env file is normal outside development
	_ = godotenv.Load()

	loaded, err := config.LoadWithDefaults(config.ResolvePath(configFile))
	if err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return err
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

func newOddsClient(ctx context.Context) (*oddsapi.Client, error) {
	var cache oddsapi.ResponseCache
	if cfg.OddsAPI.CacheBackend == "redis" {
		rdb, err := oddsapi.NewRedisClient(ctx, cfg.OddsAPI.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect odds cache: %w", err)
		}
		cache = oddsapi.NewRedisCache(rdb, cfg.OddsAPI.CacheTTL(), "")
	}

	defaults := oddsapi.DefaultHTTPClientConfig()
	return oddsapi.NewClient(oddsapi.Config{
		BaseURL:  cfg.OddsAPI.BaseURL,
		APIKey:   cfg.OddsAPI.APIKey,
		CacheTTL: cfg.OddsAPI.CacheTTL(),
		Cache:    cache,
		HTTP: oddsapi.HTTPClientConfig{
			Timeout:           cfg.OddsAPI.Timeout(),
			MaxRetries:        cfg.OddsAPI.MaxRetries,
			RetryWaitMin:      defaults.RetryWaitMin,
			RetryWaitMax:      defaults.RetryWaitMax,
			RateLimit:         cfg.OddsAPI.RateLimit,
			CircuitBreakerMax: cfg.OddsAPI.CircuitBreakerMax,
			CircuitCooldown:   cfg.OddsAPI.CircuitBreakerCooldown(),
		},
	}, appLog), nil
}

func newAnalyzer() *arbitrage.Analyzer {
	opts := []arbitrage.Option{arbitrage.WithWorkers(cfg.Arbitrage.Workers)}
	if cfg.Metrics.Enabled {
		opts = append(opts, arbitrage.WithRecorder(metrics.NewRecorder()))
	}
	return arbitrage.NewAnalyzer(appLog, opts...)
}
