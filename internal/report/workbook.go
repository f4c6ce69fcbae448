package report

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/finsight/finsight/internal/eda"
	"github.com/finsight/finsight/internal/sentiment"
)

// WorkbookData collects the analysis outputs exported to Excel.
// Nil sections are skipped.
type WorkbookData struct {
	EDA       *eda.Summary
	Sentiment *sentiment.SummaryStats
	Scored    []sentiment.ScoredArticle
}

const (
	sheetOverview   = "Overview"
	sheetPublishers = "Publishers"
	sheetStocks     = "Stocks"
	sheetSentiment  = "Sentiment"
)

// WriteWorkbook renders the analysis results as a multi-sheet XLSX file
func WriteWorkbook(path string, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetOverview)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if data.EDA != nil {
		if err := writeOverview(f, headerStyle, data.EDA); err != nil {
			return err
		}
		if err := writeCounts(f, headerStyle, sheetPublishers, "Publisher", data.EDA.Publisher.PublisherCounts); err != nil {
			return err
		}
		if err := writeCounts(f, headerStyle, sheetStocks, "Stock", data.EDA.Stocks.StockCounts); err != nil {
			return err
		}
	}

	if data.Sentiment != nil || len(data.Scored) > 0 {
		if err := writeSentiment(f, headerStyle, data); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Info().Str("path", path).Msg("Workbook written")
	return nil
}

func writeOverview(f *excelize.File, headerStyle int, s *eda.Summary) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Articles", s.Articles},
		{"Unique Publishers", s.Publisher.UniquePublishers},
		{"Unique Domains", s.Publisher.UniqueDomains},
		{"Unique Stocks", s.Stocks.UniqueStocks},
		{"Headline Word Count Mean", s.Headlines.WordCounts.Mean},
		{"Headline Word Count Median", s.Headlines.WordCounts.Median},
		{"Headline Word Count Max", s.Headlines.WordCounts.Max},
		{"Top Publisher", s.Publisher.TopPublisher},
		{"Top Stock", s.Stocks.TopStock},
	}
	if !s.Temporal.Start.IsZero() {
		rows = append(rows,
			[]any{"Date Range Start", s.Temporal.Start.Format("2006-01-02")},
			[]any{"Date Range End", s.Temporal.End.Format("2006-01-02")},
			[]any{"Total Days Covered", s.Temporal.TotalDays},
		)
	}

	if err := writeRows(f, sheetOverview, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetOverview, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetOverview, "A", "A", 30)
}

func writeCounts(f *excelize.File, headerStyle int, sheet, label string, counts map[string]int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// highest count first, alphabetical within ties
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := make([][]any, 0, len(keys)+1)
	rows = append(rows, []any{label, "Articles"})
	for _, k := range keys {
		rows = append(rows, []any{k, counts[k]})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}

func writeSentiment(f *excelize.File, headerStyle int, data WorkbookData) error {
	if _, err := f.NewSheet(sheetSentiment); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheetSentiment, err)
	}

	rows := [][]any{}
	if data.Sentiment != nil {
		rows = append(rows,
			[]any{"Headlines Scored", data.Sentiment.Count},
			[]any{"Mean Polarity", data.Sentiment.PolarityMean},
			[]any{"Mean Compound", data.Sentiment.CompoundMean},
			[]any{"Mean Subjectivity", data.Sentiment.SubjectivityMean},
			[]any{},
		)
	}

	headerRow := len(rows) + 1
	rows = append(rows, []any{"Date", "Stock", "Headline", "Polarity", "Compound", "Financial Terms"})
	for _, sa := range data.Scored {
		rows = append(rows, []any{
			sa.Article.Date.Format("2006-01-02"),
			sa.Article.Stock,
			sa.Article.Headline,
			sa.Score.Polarity,
			sa.Score.Compound,
			sa.Score.FinancialTerms,
		})
	}

	if err := writeRows(f, sheetSentiment, rows); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	end, _ := excelize.CoordinatesToCellName(6, headerRow)
	if err := f.SetCellStyle(sheetSentiment, start, end, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetSentiment, "C", "C", 50)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
