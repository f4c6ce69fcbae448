package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finsight/finsight/internal/pipeline"
)

// runIndicators executes the technical indicator stage standalone
func runIndicators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pricesPath := cfg.Data.PricesPath
	if v, _ := cmd.Flags().GetString("prices"); v != "" {
		pricesPath = v
	}
	outDir := cfg.Output.Dir
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		outDir = v
	}

	step := &pipeline.IndicatorsStep{PricesPath: pricesPath, OutDir: outDir}

	result, err := step.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("indicators failed: %w", err)
	}

	log.Info().Str("summary", result.Summary).Strs("artifacts", result.Artifacts).Msg("Indicators completed")
	return nil
}
