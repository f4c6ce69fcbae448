package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/pipeline"
)

// runEDA executes the exploratory analysis stage standalone
func runEDA(cmd *cobra.Command, args []string) error {
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

	step := &pipeline.EDAStep{NewsPath: newsPath, OutDir: outDir}

	result, err := step.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("eda failed: %w", err)
	}

	log.Info().Str("summary", result.Summary).Strs("artifacts", result.Artifacts).Msg("EDA completed")
	return nil
}
