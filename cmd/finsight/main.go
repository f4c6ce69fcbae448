package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "FinSight"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "finsight",
		Short:   "Financial news analysis pipeline",
		Version: version,
		Long: `FinSight analyzes financial news headlines and stock prices.

It runs three analysis stages in fixed order: exploratory data analysis,
headline sentiment scoring, and technical indicator computation. Each stage
must succeed before the next starts.`,
		Run: runDefaultEntry,
	}

	rootCmd.PersistentFlags().String("config", "config/config.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	edaCmd := &cobra.Command{
		Use:   "eda",
		Short: "Run exploratory analysis over the news dataset",
		Long:  "Computes headline, publisher, temporal, and stock coverage statistics and writes the summary artifacts",
		RunE:  runEDA,
	}
	edaCmd.Flags().String("news", "", "News CSV path (overrides config)")
	edaCmd.Flags().String("out", "", "Output directory (overrides config)")

	sentimentCmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Score headline sentiment",
		Long:  "Scores every headline with the financial lexicon and writes scored articles and batch statistics",
		RunE:  runSentiment,
	}
	sentimentCmd.Flags().String("news", "", "News CSV path (overrides config)")
	sentimentCmd.Flags().String("out", "", "Output directory (overrides config)")
	sentimentCmd.Flags().Int("window", 0, "Rolling trend window (overrides config)")

	indicatorsCmd := &cobra.Command{
		Use:   "indicators",
		Short: "Compute technical indicators over the price dataset",
		Long:  "Computes SMA, RSI, and MACD series from OHLCV bars and writes the indicator artifact",
		RunE:  runIndicators,
	}
	indicatorsCmd.Flags().String("prices", "", "Price CSV path (overrides config)")
	indicatorsCmd.Flags().String("out", "", "Output directory (overrides config)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis pipeline",
		Long:  "Executes eda, sentiment, and indicators sequentially. The first failing stage halts the run.",
		RunE:  runPipeline,
	}
	runCmd.Flags().Bool("store", false, "Persist scored articles to the configured database")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Collect headlines from configured sources",
		Long:  "Scrapes the configured news sources and writes the collected headlines as a loadable CSV dataset",
		RunE:  runFetch,
	}
	fetchCmd.Flags().String("out", "data/fetched_news.csv", "Output CSV path")
	fetchCmd.Flags().Bool("store", false, "Persist fetched articles to the configured database")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis API server",
		Long:  "Serves analysis artifacts over HTTP with /metrics, /health, and a websocket run stream",
		RunE:  runServe,
	}
	serveCmd.Flags().String("host", "", "Listen host (overrides config)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides config)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Export analysis results as an Excel workbook",
		Long:  "Bundles the EDA and sentiment artifacts of the latest run into a multi-sheet XLSX file",
		RunE:  runReport,
	}
	reportCmd.Flags().String("out", "", "Workbook path (defaults to report.xlsx under the output dir)")

	rootCmd.AddCommand(edaCmd, sentimentCmd, indicatorsCmd, runCmd, fetchCmd, serveCmd, reportCmd)

	cobra.OnInitialize(func() {
		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// runDefaultEntry prints usage guidance, with a hint when attached to a terminal
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("%s %s\n\n", appName, version)
		fmt.Println("Run 'finsight run' for the full pipeline, or see 'finsight --help' for single stages.")
		return
	}
	_ = cmd.Help()
}
