package eda

import (
	"fmt"
	"strings"
)

// Summary aggregates all analysis sections for reporting
type Summary struct {
	Articles  int            `json:"articles"`
	Headlines HeadlineStats  `json:"headlines"`
	Publisher PublisherStats `json:"publishers"`
	Temporal  TemporalStats  `json:"temporal"`
	Stocks    StockStats     `json:"stocks"`
}

// Summarize runs all analysis sections in one pass
func (a *Analyzer) Summarize() *Summary {
	return &Summary{
		Articles:  a.ArticleCount(),
		Headlines: a.AnalyzeHeadlines(),
		Publisher: a.AnalyzePublishers(),
		Temporal:  a.AnalyzeTemporal(),
		Stocks:    a.AnalyzeStocks(),
	}
}

// Render formats the summary as a plain-text report
func (s *Summary) Render() string {
	var b strings.Builder

	b.WriteString("FINANCIAL NEWS DATASET - EDA SUMMARY REPORT\n")
	b.WriteString("==========================================\n\n")

	b.WriteString("Dataset Overview:\n")
	fmt.Fprintf(&b, "- Total Articles: %d\n", s.Articles)
	if !s.Temporal.Start.IsZero() {
		fmt.Fprintf(&b, "- Date Range: %s to %s\n",
			s.Temporal.Start.Format("2006-01-02"), s.Temporal.End.Format("2006-01-02"))
		fmt.Fprintf(&b, "- Total Days Covered: %d\n", s.Temporal.TotalDays)
	}
	fmt.Fprintf(&b, "- Unique Publishers: %d\n", s.Publisher.UniquePublishers)
	fmt.Fprintf(&b, "- Unique Stocks Covered: %d\n\n", s.Stocks.UniqueStocks)

	b.WriteString("Headline Analysis:\n")
	fmt.Fprintf(&b, "- Average Word Count: %.1f\n", s.Headlines.WordCounts.Mean)
	fmt.Fprintf(&b, "- Median Word Count: %.1f\n", s.Headlines.WordCounts.Median)
	fmt.Fprintf(&b, "- Max Word Count: %.0f\n\n", s.Headlines.WordCounts.Max)

	b.WriteString("Publication Patterns:\n")
	if s.Temporal.TotalDays > 0 {
		fmt.Fprintf(&b, "- Average Articles per Day: %.1f\n",
			float64(s.Articles)/float64(s.Temporal.TotalDays))
	}
	fmt.Fprintf(&b, "- Most Active Publisher: %s (%d articles)\n",
		s.Publisher.TopPublisher, s.Publisher.TopPublisherHits)
	fmt.Fprintf(&b, "- Most Covered Stock: %s (%d articles)\n",
		s.Stocks.TopStock, s.Stocks.TopStockHits)

	return b.String()
}
