package eda

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/dataset"
)

// DescriptiveStats holds summary statistics for a numeric series
type DescriptiveStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// HeadlineStats contains headline length analysis results
type HeadlineStats struct {
	WordCounts DescriptiveStats `json:"word_counts"`
	CharCounts DescriptiveStats `json:"char_counts"`
}

// PublisherStats contains publisher and domain analysis results
type PublisherStats struct {
	PublisherCounts  map[string]int `json:"publisher_counts"`
	DomainCounts     map[string]int `json:"domain_counts"`
	UniquePublishers int            `json:"unique_publishers"`
	UniqueDomains    int            `json:"unique_domains"`
	TopPublisher     string         `json:"top_publisher"`
	TopPublisherHits int            `json:"top_publisher_hits"`
}

// TemporalStats contains publication timing analysis results
type TemporalStats struct {
	DailyCounts   map[string]int `json:"daily_counts"`   // keyed YYYY-MM-DD
	HourlyCounts  map[int]int    `json:"hourly_counts"`  // 0-23
	WeekdayCounts map[string]int `json:"weekday_counts"` // Monday..Sunday
	Start         time.Time      `json:"start"`
	End           time.Time      `json:"end"`
	TotalDays     int            `json:"total_days"`
}

// StockStats contains stock coverage analysis results
type StockStats struct {
	StockCounts      map[string]int   `json:"stock_counts"`
	UniqueStocks     int              `json:"unique_stocks"`
	ArticlesPerStock DescriptiveStats `json:"articles_per_stock"`
	TopStock         string           `json:"top_stock"`
	TopStockHits     int              `json:"top_stock_hits"`
}

// Analyzer runs exploratory analysis over a news dataset
type Analyzer struct {
	articles []dataset.Article
}

// New creates an analyzer over the given articles
func New(articles []dataset.Article) *Analyzer {
	return &Analyzer{articles: articles}
}

// ArticleCount returns the dataset size
func (a *Analyzer) ArticleCount() int {
	return len(a.articles)
}

// AnalyzeHeadlines computes word and character length statistics
func (a *Analyzer) AnalyzeHeadlines() HeadlineStats {
	words := make([]float64, len(a.articles))
	chars := make([]float64, len(a.articles))

	for i, art := range a.articles {
		words[i] = float64(len(strings.Fields(art.Headline)))
		chars[i] = float64(len(art.Headline))
	}

	return HeadlineStats{
		WordCounts: Describe(words),
		CharCounts: Describe(chars),
	}
}

// AnalyzePublishers counts articles per publisher and per publisher domain.
// Email-style publisher names are reduced to the part after '@'.
func (a *Analyzer) AnalyzePublishers() PublisherStats {
	pubs := make(map[string]int)
	domains := make(map[string]int)

	for _, art := range a.articles {
		pubs[art.Publisher]++
		domains[ExtractDomain(art.Publisher)]++
	}

	top, hits := topEntry(pubs)

	return PublisherStats{
		PublisherCounts:  pubs,
		DomainCounts:     domains,
		UniquePublishers: len(pubs),
		UniqueDomains:    len(domains),
		TopPublisher:     top,
		TopPublisherHits: hits,
	}
}

// ExtractDomain reduces an email-style publisher to its domain
func ExtractDomain(publisher string) string {
	if i := strings.LastIndex(publisher, "@"); i >= 0 {
		return publisher[i+1:]
	}
	return publisher
}

// AnalyzeTemporal computes publication frequency patterns over time
func (a *Analyzer) AnalyzeTemporal() TemporalStats {
	stats := TemporalStats{
		DailyCounts:   make(map[string]int),
		HourlyCounts:  make(map[int]int),
		WeekdayCounts: make(map[string]int),
	}

	for i, art := range a.articles {
		stats.DailyCounts[art.Date.Format("2006-01-02")]++
		stats.HourlyCounts[art.Date.Hour()]++
		stats.WeekdayCounts[art.Date.Weekday().String()]++

		if i == 0 || art.Date.Before(stats.Start) {
			stats.Start = art.Date
		}
		if art.Date.After(stats.End) {
			stats.End = art.Date
		}
	}

	if !stats.Start.IsZero() {
		stats.TotalDays = int(stats.End.Sub(stats.Start).Hours() / 24)
	}

	return stats
}

// AnalyzeStocks computes per-symbol coverage statistics
func (a *Analyzer) AnalyzeStocks() StockStats {
	counts := make(map[string]int)
	for _, art := range a.articles {
		counts[art.Stock]++
	}

	perStock := make([]float64, 0, len(counts))
	for _, n := range counts {
		perStock = append(perStock, float64(n))
	}

	top, hits := topEntry(counts)

	return StockStats{
		StockCounts:      counts,
		UniqueStocks:     len(counts),
		ArticlesPerStock: Describe(perStock),
		TopStock:         top,
		TopStockHits:     hits,
	}
}

// Describe computes descriptive statistics for a series
func Describe(values []float64) DescriptiveStats {
	if len(values) == 0 {
		return DescriptiveStats{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	std := 0.0
	if len(sorted) > 1 {
		std = math.Sqrt(variance / float64(len(sorted)-1))
	}

	return DescriptiveStats{
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		P75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile interpolates linearly on a sorted series
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// topEntry returns the key with the highest count, ties broken alphabetically
func topEntry(counts map[string]int) (string, int) {
	top := ""
	hits := 0
	for k, n := range counts {
		if n > hits || (n == hits && (top == "" || k < top)) {
			top = k
			hits = n
		}
	}
	return top, hits
}
