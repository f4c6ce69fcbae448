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
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/sentiment"
)

// runPipeline executes all analysis stages sequentially with fail-fast semantics
func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := sentiment.NewAnalyzer(sentiment.Config{RollingWindow: cfg.Sentiment.RollingWindow})
	scoreCache := cache.NewScoreCache(cache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisDB), cfg.Cache.DefaultTTL())
	reg := metrics.Default()

	sentimentStep := &pipeline.SentimentStep{
		NewsPath: cfg.Data.NewsPath,
		OutDir:   cfg.Output.Dir,
		Analyzer: analyzer,
		Score:    cachedScorer(analyzer, scoreCache, reg),
	}

	if store, _ := cmd.Flags().GetBool("store"); store {
		cfg.Database.Enabled = true
	}
	if cfg.Database.Enabled {
		manager, err := db.NewManager(cfg.Database)
		if err != nil {
			return fmt.Errorf("database setup failed: %w", err)
		}
		defer manager.Close()

		repos := manager.Repository()
		sentimentStep.Store = func(ctx context.Context, scored []sentiment.ScoredArticle) error {
			return repos.Scores.InsertBatch(ctx, scored)
		}
		log.Info().Msg("Persistence enabled, scores will be stored")
	}

	runner := pipeline.NewRunner(pipeline.Config{ArtifactsDir: cfg.Output.ArtifactsDir})
	runner.AddSink(reg)
	runner.Register(
		&pipeline.EDAStep{NewsPath: cfg.Data.NewsPath, OutDir: cfg.Output.Dir},
		sentimentStep,
		&pipeline.IndicatorsStep{PricesPath: cfg.Data.PricesPath, OutDir: cfg.Output.Dir},
	)

	result, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline halted at %s: %w", result.Halted, err)
	}

	for _, step := range result.Steps {
		log.Info().Str("step", step.Step).Str("summary", step.Summary).Msg("Stage result")
	}
	log.Info().Str("run_id", result.RunID).Dur("duration", result.Duration).Msg("All stages completed")
	return nil
}
