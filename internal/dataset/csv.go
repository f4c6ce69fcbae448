package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Required columns for the news dataset. Order in the file does not matter.
var requiredArticleColumns = []string{"headline", "publisher", "date", "stock"}

// Date layouts accepted for article and price timestamps
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02",
}

// LoadArticles reads a financial news CSV and validates its header.
// Rows with unparseable dates are skipped and counted in the report.
func LoadArticles(path string) ([]Article, *LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("dataset %s is empty", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapColumns(header, requiredArticleColumns)
	if err != nil {
		return nil, nil, err
	}
	urlIdx := optionalColumn(header, "url")

	var articles []Article
	report := &LoadReport{}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}

		date, err := parseDate(field(rec, cols["date"]))
		if err != nil {
			report.SkippedRows++
			continue
		}

		a := Article{
			Headline:  field(rec, cols["headline"]),
			Publisher: field(rec, cols["publisher"]),
			Date:      date,
			Stock:     strings.ToUpper(strings.TrimSpace(field(rec, cols["stock"]))),
		}
		if urlIdx >= 0 {
			a.URL = field(rec, urlIdx)
		}
		articles = append(articles, a)
		report.Rows++
	}

	if report.SkippedRows > 0 {
		log.Warn().Int("skipped", report.SkippedRows).Str("path", path).Msg("Skipped rows with unparseable dates")
	}
	log.Info().Int("rows", report.Rows).Int("cols", len(header)).Str("path", path).Msg("Dataset loaded")

	return articles, report, nil
}

// LoadPriceBars reads an OHLCV price CSV ordered by date ascending
func LoadPriceBars(path string) ([]PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("price data %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapColumns(header, []string{"date", "open", "high", "low", "close", "volume"})
	if err != nil {
		return nil, err
	}

	var bars []PriceBar
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		date, err := parseDate(field(rec, cols["date"]))
		if err != nil {
			continue
		}

		bar := PriceBar{Date: date}
		if bar.Open, err = parseFloat(field(rec, cols["open"])); err != nil {
			continue
		}
		if bar.High, err = parseFloat(field(rec, cols["high"])); err != nil {
			continue
		}
		if bar.Low, err = parseFloat(field(rec, cols["low"])); err != nil {
			continue
		}
		if bar.Close, err = parseFloat(field(rec, cols["close"])); err != nil {
			continue
		}
		if bar.Volume, err = parseFloat(field(rec, cols["volume"])); err != nil {
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("price data %s has no usable rows", path)
	}

	return bars, nil
}

// WriteArticles saves articles as a CSV readable by LoadArticles
func WriteArticles(path string, articles []Article) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"headline", "publisher", "date", "stock", "url"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range articles {
		rec := []string{a.Headline, a.Publisher, a.Date.Format(time.RFC3339), a.Stock, a.URL}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}

	log.Info().Int("rows", len(articles)).Str("path", path).Msg("Dataset written")
	return nil
}

// mapColumns resolves required column names to header indices (case-insensitive)
func mapColumns(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func optionalColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
