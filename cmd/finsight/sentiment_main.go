package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/cache"
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/sentiment"
)

// runSentiment executes the headline scoring stage standalone
func runSentiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	newsPath := cfg.Data.NewsPath
	if v, _ := cmd.Flags().GetString("news"); v != "" {
		newsPath = v
	}
	outDir := cfg.Output.Dir
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		outDir = v
	}
	window := cfg.Sentiment.RollingWindow
	if v, _ := cmd.Flags().GetInt("window"); v > 0 {
		window = v
	}

	analyzer := sentiment.NewAnalyzer(sentiment.Config{RollingWindow: window})
	scoreCache := cache.NewScoreCache(cache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisDB), cfg.Cache.DefaultTTL())

	step := &pipeline.SentimentStep{
		NewsPath: newsPath,
		OutDir:   outDir,
		Analyzer: analyzer,
		Score:    cachedScorer(analyzer, scoreCache, metrics.Default()),
	}

	result, err := step.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sentiment failed: %w", err)
	}

	log.Info().Str("summary", result.Summary).Strs("artifacts", result.Artifacts).Msg("Sentiment completed")
	return nil
}
