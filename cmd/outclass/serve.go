package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/outclass-odds/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func runServer(ctx context.Context) error {
	client, err := newOddsClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
		"has_api_key": client.HasAPIKey(),
		"workers":     cfg.Arbitrage.Workers,
		"odds_cache":  cfg.OddsAPI.CacheBackend,
	}).Info("Outclass odds service starting")

	srv := server.NewServer(server.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Addr:           cfg.ServerAddress(),
		ReadTimeout:    cfg.Server.ReadTimeout(),
		WriteTimeout:   cfg.Server.WriteTimeout(),
		IdleTimeout:    cfg.Server.IdleTimeout(),
		RequestTimeout: cfg.Server.WriteTimeout() - time.Second,
		CORSOrigins:    cfg.Server.CORSOrigins,
		DefaultSport:   cfg.OddsAPI.DefaultSport,
		DefaultRegion:  cfg.OddsAPI.DefaultRegion,
		DefaultMarket:  cfg.Arbitrage.MarketKey,
		DefaultStake:   cfg.Arbitrage.DefaultStake,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         appLog,
		Odds:           client,
		Analyzer:       newAnalyzer(),
	})

	if err := srv.Start(ctx); err != nil {
		appLog.WithError(err).Error("API server stopped unexpectedly")
		return err
	}

	appLog.Info("Outclass odds service stopped")
	return nil
}
