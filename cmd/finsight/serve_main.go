package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/cache"
	"github.com/finsight/finsight/internal/infrastructure/db"
	httpapi "github.com/finsight/finsight/internal/interfaces/http"
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/sentiment"
)

// runServe starts the HTTP API over the analysis artifacts. Runs triggered
// through POST /runs stream their progress over /ws/runs.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Server.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v > 0 {
		cfg.Server.Port = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := httpapi.NewStreamHub()
	handlers := httpapi.NewHandlers(cfg.Output.Dir, cfg.Output.ArtifactsDir, version)

	if cfg.Database.Enabled {
		manager, err := db.NewManager(cfg.Database)
		if err != nil {
			return fmt.Errorf("database setup failed: %w", err)
		}
		defer manager.Close()
		handlers.SetRepository(manager.Repository())
		log.Info().Msg("Persistence enabled, stored endpoints active")
	}

	analyzer := sentiment.NewAnalyzer(sentiment.Config{RollingWindow: cfg.Sentiment.RollingWindow})
	scoreCache := cache.NewScoreCache(cache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisDB), cfg.Cache.DefaultTTL())
	reg := metrics.Default()

	handlers.SetRunStarter(func(ctx context.Context) (*pipeline.RunResult, error) {
		runner := pipeline.NewRunner(pipeline.Config{ArtifactsDir: cfg.Output.ArtifactsDir})
		runner.AddSink(reg)
		runner.AddSink(hub)
		runner.Register(
			&pipeline.EDAStep{NewsPath: cfg.Data.NewsPath, OutDir: cfg.Output.Dir},
			&pipeline.SentimentStep{
				NewsPath: cfg.Data.NewsPath,
				OutDir:   cfg.Output.Dir,
				Analyzer: analyzer,
				Score:    cachedScorer(analyzer, scoreCache, reg),
			},
			&pipeline.IndicatorsStep{PricesPath: cfg.Data.PricesPath, OutDir: cfg.Output.Dir},
		)
		return runner.Run(ctx)
	})

	server := httpapi.NewServer(cfg.Server, handlers, hub)

	log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("Starting analysis API")
	return server.Start(ctx)
}
