package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/eda"
	"github.com/finsight/finsight/internal/indicators"
	"github.com/finsight/finsight/internal/sentiment"
)

// Canonical step names in their fixed execution order
const (
	StepEDA        = "eda"
	StepSentiment  = "sentiment"
	StepIndicators = "indicators"
)

// EDAStep runs exploratory analysis over the news dataset
type EDAStep struct {
	NewsPath string
	OutDir   string
}

func (s *EDAStep) Name() string { return StepEDA }

func (s *EDAStep) Run(ctx context.Context) (*StepResult, error) {
	articles, report, err := dataset.LoadArticles(s.NewsPath)
	if err != nil {
		return nil, err
	}

	summary := eda.New(articles).Summarize()

	path, err := writeJSON(s.OutDir, "eda_summary.json", summary)
	if err != nil {
		return nil, err
	}
	reportPath := filepath.Join(s.OutDir, "eda_report.txt")
	if err := os.WriteFile(reportPath, []byte(summary.Render()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return &StepResult{
		Summary:   fmt.Sprintf("%d articles, %d skipped rows, %d publishers", report.Rows, report.SkippedRows, summary.Publisher.UniquePublishers),
		Artifacts: []string{path, reportPath},
	}, nil
}

// SentimentStep scores every headline in the news dataset
type SentimentStep struct {
	NewsPath string
	OutDir   string
	Analyzer *sentiment.Analyzer
	// Score replaces the analyzer when set, e.g. to add caching
	Score func(ctx context.Context, articles []dataset.Article) []sentiment.ScoredArticle
	// Store receives scored articles when persistence is configured
	Store func(ctx context.Context, scored []sentiment.ScoredArticle) error
}

func (s *SentimentStep) Name() string { return StepSentiment }

func (s *SentimentStep) Run(ctx context.Context) (*StepResult, error) {
	articles, _, err := dataset.LoadArticles(s.NewsPath)
	if err != nil {
		return nil, err
	}

	var scored []sentiment.ScoredArticle
	if s.Score != nil {
		scored = s.Score(ctx, articles)
	} else {
		analyzer := s.Analyzer
		if analyzer == nil {
			analyzer = sentiment.NewAnalyzer(sentiment.DefaultConfig())
		}
		scored = analyzer.ScoreArticles(articles)
	}

	scores := make([]sentiment.Score, len(scored))
	for i, sa := range scored {
		scores[i] = sa.Score
	}
	stats := sentiment.Summarize(scores)

	scoredPath, err := writeJSONL(s.OutDir, "scored_articles.jsonl", scored)
	if err != nil {
		return nil, err
	}
	statsPath, err := writeJSON(s.OutDir, "sentiment_summary.json", stats)
	if err != nil {
		return nil, err
	}

	analyzer := s.Analyzer
	if analyzer == nil {
		analyzer = sentiment.NewAnalyzer(sentiment.DefaultConfig())
	}
	trendPath, err := writeJSON(s.OutDir, "sentiment_trend.json", trendRows(analyzer.Trend(scored)))
	if err != nil {
		return nil, err
	}

	if s.Store != nil {
		if err := s.Store(ctx, scored); err != nil {
			return nil, fmt.Errorf("failed to persist scores: %w", err)
		}
	}

	return &StepResult{
		Summary:   fmt.Sprintf("%d headlines scored, mean compound %.3f", stats.Count, stats.CompoundMean),
		Artifacts: []string{scoredPath, statsPath, trendPath},
	}, nil
}

// TrendRow is one output row of the sentiment trend artifact.
// Rolling means before a full window serialize as null.
type TrendRow struct {
	Timestamp       time.Time `json:"timestamp"`
	Polarity        float64   `json:"polarity"`
	Compound        float64   `json:"compound"`
	RollingPolarity *float64  `json:"rolling_polarity"`
	RollingCompound *float64  `json:"rolling_compound"`
}

func trendRows(points []sentiment.TrendPoint) []TrendRow {
	rows := make([]TrendRow, len(points))
	for i, p := range points {
		rows[i] = TrendRow{
			Timestamp:       p.Timestamp,
			Polarity:        p.Polarity,
			Compound:        p.Compound,
			RollingPolarity: nullable(p.RollingPolarity),
			RollingCompound: nullable(p.RollingCompound),
		}
	}
	return rows
}

// IndicatorsStep computes technical indicators over the price dataset
type IndicatorsStep struct {
	PricesPath string
	OutDir     string
}

func (s *IndicatorsStep) Name() string { return StepIndicators }

// IndicatorRow is one output row of the indicators artifact.
// Warmup values are NaN in the series and serialize as null here.
type IndicatorRow struct {
	Date       string   `json:"date"`
	Close      float64  `json:"close"`
	SMA        *float64 `json:"sma"`
	MA20       *float64 `json:"ma_20"`
	MA50       *float64 `json:"ma_50"`
	MA200      *float64 `json:"ma_200"`
	RSI        *float64 `json:"rsi"`
	MACD       *float64 `json:"macd"`
	Signal     *float64 `json:"macd_signal"`
	Histogram  *float64 `json:"macd_hist"`
	BBUpper    *float64 `json:"bb_upper"`
	BBLower    *float64 `json:"bb_lower"`
	ATR        *float64 `json:"atr"`
	VolumeMA   *float64 `json:"volume_ma"`
	VolumeROC  *float64 `json:"volume_roc"`
	OBV        float64  `json:"obv"`
	Volatility *float64 `json:"volatility"`
}

// nullable converts NaN to a JSON null
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func (s *IndicatorsStep) Run(ctx context.Context) (*StepResult, error) {
	bars, err := dataset.LoadPriceBars(s.PricesPath)
	if err != nil {
		return nil, err
	}

	closes := dataset.Closes(bars)
	volumes := dataset.Volumes(bars)

	sma, err := indicators.SMA(closes, indicators.DefaultSMAPeriod)
	if err != nil {
		return nil, err
	}
	mas, err := indicators.MovingAverages(closes, nil)
	if err != nil {
		return nil, err
	}
	rsi, err := indicators.RSI(closes, indicators.DefaultRSIPeriod)
	if err != nil {
		return nil, err
	}
	macd, err := indicators.MACD(closes, indicators.DefaultMACDFast, indicators.DefaultMACDSlow, indicators.DefaultMACDSignal)
	if err != nil {
		return nil, err
	}
	bands, err := indicators.Bollinger(closes, indicators.DefaultBandPeriod, indicators.DefaultBandStdDev)
	if err != nil {
		return nil, err
	}
	atr, err := indicators.ATR(dataset.Highs(bars), dataset.Lows(bars), closes, indicators.DefaultATRPeriod)
	if err != nil {
		return nil, err
	}
	vol, err := indicators.VolumeIndicators(closes, volumes, indicators.DefaultVolumePeriod)
	if err != nil {
		return nil, err
	}
	volatility, err := indicators.Volatility(closes, indicators.DefaultVolatilityPeriod)
	if err != nil {
		return nil, err
	}

	rows := make([]IndicatorRow, len(bars))
	for i, bar := range bars {
		rows[i] = IndicatorRow{
			Date:       bar.Date.Format("2006-01-02"),
			Close:      bar.Close,
			SMA:        nullable(sma[i]),
			MA20:       nullable(mas["ma_20"][i]),
			MA50:       nullable(mas["ma_50"][i]),
			MA200:      nullable(mas["ma_200"][i]),
			RSI:        nullable(rsi[i]),
			MACD:       nullable(macd.MACD[i]),
			Signal:     nullable(macd.Signal[i]),
			Histogram:  nullable(macd.Histogram[i]),
			BBUpper:    nullable(bands.Upper[i]),
			BBLower:    nullable(bands.Lower[i]),
			ATR:        nullable(atr[i]),
			VolumeMA:   nullable(vol.VolumeMA[i]),
			VolumeROC:  nullable(vol.VolumeROC[i]),
			OBV:        vol.OBV[i],
			Volatility: nullable(volatility[i]),
		}
	}

	path, err := writeJSONL(s.OutDir, "indicators.jsonl", rows)
	if err != nil {
		return nil, err
	}

	return &StepResult{
		Summary:   fmt.Sprintf("%d bars, SMA(%d)/RSI(%d)/MACD", len(bars), indicators.DefaultSMAPeriod, indicators.DefaultRSIPeriod),
		Artifacts: []string{path},
	}, nil
}

func writeJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, name)

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

func writeJSONL[T any](dir, name string, rows []T) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return "", fmt.Errorf("failed to encode row: %w", err)
		}
	}
	return path, nil
}
