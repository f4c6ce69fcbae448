package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/cache"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/sentiment"
)

// loadConfig resolves the config file from the persistent flag. A missing
// file is only an error when the user pointed at one explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		log.Debug().Str("path", path).Msg("No config file, using defaults")
		return config.Default(), nil
	}
	return config.Load(path)
}

// cachedScorer scores headlines through the score cache, counting hits and
// misses. Duplicate headlines in a batch are scored once.
func cachedScorer(analyzer *sentiment.Analyzer, sc *cache.ScoreCache, reg *metrics.Registry) func(ctx context.Context, articles []dataset.Article) []sentiment.ScoredArticle {
	return func(ctx context.Context, articles []dataset.Article) []sentiment.ScoredArticle {
		scored := make([]sentiment.ScoredArticle, len(articles))
		for i, art := range articles {
			score, ok := sc.Get(ctx, art.Headline)
			if ok {
				reg.CacheHits.WithLabelValues("sentiment").Inc()
			} else {
				reg.CacheMisses.WithLabelValues("sentiment").Inc()
				score = analyzer.Analyze(art.Headline)
				sc.Put(ctx, art.Headline, score)
			}
			reg.HeadlinesScored.Inc()
			scored[i] = sentiment.ScoredArticle{Article: art, Score: score}
		}
		return scored
	}
}
