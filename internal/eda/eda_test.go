package eda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/dataset"
)

func fixtureArticles() []dataset.Article {
	day := func(d int, hour int) time.Time {
		return time.Date(2020, 6, d, hour, 0, 0, 0, time.UTC)
	}
	return []dataset.Article{
		{Headline: "Apple beats earnings expectations again", Publisher: "alice@reuters.com", Date: day(1, 9), Stock: "AAPL"},
		{Headline: "Tesla recall weighs on shares", Publisher: "benzinga.com", Date: day(1, 14), Stock: "TSLA"},
		{Headline: "Apple supplier update", Publisher: "alice@reuters.com", Date: day(2, 9), Stock: "AAPL"},
		{Headline: "Markets rally", Publisher: "bob@reuters.com", Date: day(3, 16), Stock: "SPY"},
	}
}

func TestAnalyzeHeadlines(t *testing.T) {
	a := New(fixtureArticles())
	stats := a.AnalyzeHeadlines()

	assert.Equal(t, 4, stats.WordCounts.Count)
	assert.Equal(t, 2.0, stats.WordCounts.Min, "shortest headline has two words")
	assert.Equal(t, 5.0, stats.WordCounts.Max)
	assert.InDelta(t, 3.75, stats.WordCounts.Mean, 0.001)
	assert.Greater(t, stats.CharCounts.Mean, stats.WordCounts.Mean)
}

func TestAnalyzePublishers_DomainExtraction(t *testing.T) {
	a := New(fixtureArticles())
	stats := a.AnalyzePublishers()

	assert.Equal(t, 3, stats.UniquePublishers)
	assert.Equal(t, 2, stats.UniqueDomains, "email publishers collapse to their domain")
	assert.Equal(t, 3, stats.DomainCounts["reuters.com"])
	assert.Equal(t, 1, stats.DomainCounts["benzinga.com"])
	assert.Equal(t, "alice@reuters.com", stats.TopPublisher)
	assert.Equal(t, 2, stats.TopPublisherHits)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@reuters.com", "reuters.com"},
		{"benzinga.com", "benzinga.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractDomain(tt.in))
	}
}

func TestAnalyzeTemporal(t *testing.T) {
	a := New(fixtureArticles())
	stats := a.AnalyzeTemporal()

	assert.Equal(t, 2, stats.DailyCounts["2020-06-01"])
	assert.Equal(t, 1, stats.DailyCounts["2020-06-02"])
	assert.Equal(t, 2, stats.HourlyCounts[9])
	assert.Equal(t, "2020-06-01", stats.Start.Format("2006-01-02"))
	assert.Equal(t, "2020-06-03", stats.End.Format("2006-01-02"))
	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, 2, stats.WeekdayCounts["Monday"])
}

func TestAnalyzeStocks(t *testing.T) {
	a := New(fixtureArticles())
	stats := a.AnalyzeStocks()

	assert.Equal(t, 3, stats.UniqueStocks)
	assert.Equal(t, "AAPL", stats.TopStock)
	assert.Equal(t, 2, stats.TopStockHits)
	assert.Equal(t, 3, stats.ArticlesPerStock.Count)
}

func TestDescribe(t *testing.T) {
	stats := Describe([]float64{1, 2, 3, 4, 5})

	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 3.0, stats.Mean)
	assert.Equal(t, 3.0, stats.Median)
	assert.Equal(t, 2.0, stats.P25)
	assert.Equal(t, 4.0, stats.P75)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.InDelta(t, 1.5811, stats.Std, 0.001)
}

func TestDescribe_Empty(t *testing.T) {
	stats := Describe(nil)
	assert.Equal(t, 0, stats.Count)
}

func TestSummaryRender(t *testing.T) {
	a := New(fixtureArticles())
	report := a.Summarize().Render()

	require.NotEmpty(t, report)
	assert.Contains(t, report, "Total Articles: 4")
	assert.Contains(t, report, "Unique Publishers: 3")
	assert.Contains(t, report, "Most Covered Stock: AAPL (2 articles)")
	assert.Contains(t, report, "Date Range: 2020-06-01 to 2020-06-03")
}
