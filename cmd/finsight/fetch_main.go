package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/fetch"
	"github.com/finsight/finsight/internal/infrastructure/db"
	"github.com/finsight/finsight/internal/metrics"
)

// runFetch collects headlines from the configured sources into a CSV dataset
func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.NewFetcher(cfg.Fetch, metrics.Default())

	articles, err := fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := dataset.WriteArticles(outPath, articles); err != nil {
		return err
	}

	if store, _ := cmd.Flags().GetBool("store"); store {
		cfg.Database.Enabled = true
		manager, err := db.NewManager(cfg.Database)
		if err != nil {
			return fmt.Errorf("database setup failed: %w", err)
		}
		defer manager.Close()

		if err := manager.Repository().Articles.InsertBatch(ctx, articles); err != nil {
			return fmt.Errorf("failed to store articles: %w", err)
		}
		log.Info().Int("articles", len(articles)).Msg("Articles stored")
	}

	log.Info().Int("articles", len(articles)).Str("path", outPath).Msg("Fetch completed")
	return nil
}
