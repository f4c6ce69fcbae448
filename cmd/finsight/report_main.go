package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/eda"
	"github.com/finsight/finsight/internal/report"
	"github.com/finsight/finsight/internal/sentiment"
)

// runReport bundles the latest analysis artifacts into an Excel workbook
func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, "report.xlsx")
	}

	data := report.WorkbookData{}

	var summary eda.Summary
	if err := readJSONArtifact(cfg.Output.Dir, "eda_summary.json", &summary); err != nil {
		return fmt.Errorf("no EDA artifact; run the pipeline first: %w", err)
	}
	data.EDA = &summary

	var stats sentiment.SummaryStats
	if err := readJSONArtifact(cfg.Output.Dir, "sentiment_summary.json", &stats); err == nil {
		data.Sentiment = &stats
	}
	if scored, err := readScoredArticles(filepath.Join(cfg.Output.Dir, "scored_articles.jsonl")); err == nil {
		data.Scored = scored
	}

	if err := report.WriteWorkbook(outPath, data); err != nil {
		return err
	}

	log.Info().Str("path", outPath).Msg("Report exported")
	return nil
}

func readJSONArtifact(dir, name string, v any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func readScoredArticles(path string) ([]sentiment.ScoredArticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var scored []sentiment.ScoredArticle
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var sa sentiment.ScoredArticle
		if err := json.Unmarshal(scanner.Bytes(), &sa); err != nil {
			continue
		}
		scored = append(scored, sa)
	}
	return scored, scanner.Err()
}
