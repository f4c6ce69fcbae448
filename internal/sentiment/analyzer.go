package sentiment

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/finsight/finsight/internal/dataset"
)

// maxValence is the lexicon valence scale bound used for normalization
const maxValence = 4.0

// Score holds sentiment results for a single text
type Score struct {
	Polarity       float64 `json:"polarity"`        // [-1, 1]
	Subjectivity   float64 `json:"subjectivity"`    // [0, 1]
	Compound       float64 `json:"compound"`        // [-1, 1], normalized sum
	FinancialTerms int     `json:"financial_terms"` // domain term hits
}

// ScoredArticle pairs an article with its sentiment score
type ScoredArticle struct {
	Article dataset.Article `json:"article"`
	Score   Score           `json:"score"`
}

// TrendPoint is one step of a sentiment time series
type TrendPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	Polarity        float64   `json:"polarity"`
	Compound        float64   `json:"compound"`
	RollingPolarity float64   `json:"rolling_polarity"`
	RollingCompound float64   `json:"rolling_compound"`
}

// SummaryStats aggregates scores across a batch
type SummaryStats struct {
	Count             int     `json:"count"`
	PolarityMean      float64 `json:"polarity_mean"`
	PolarityStd       float64 `json:"polarity_std"`
	CompoundMean      float64 `json:"compound_mean"`
	CompoundStd       float64 `json:"compound_std"`
	SubjectivityMean  float64 `json:"subjectivity_mean"`
	FinancialTermMean float64 `json:"financial_term_mean"`
}

// Config tunes analyzer behavior
type Config struct {
	RollingWindow int `yaml:"rolling_window"` // trend smoothing window, default 5
}

// DefaultConfig returns analyzer defaults
func DefaultConfig() Config {
	return Config{RollingWindow: 5}
}

// Analyzer scores financial news text with an embedded lexicon
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a sentiment analyzer
func NewAnalyzer(config Config) *Analyzer {
	if config.RollingWindow <= 0 {
		config.RollingWindow = DefaultConfig().RollingWindow
	}
	return &Analyzer{config: config}
}

// Preprocess strips non-letter characters, lowercases, and collapses whitespace
func Preprocess(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Analyze scores a single text. Empty or unscorable text returns zeros.
func (a *Analyzer) Analyze(text string) Score {
	clean := Preprocess(text)
	tokens := strings.Fields(clean)
	if len(tokens) == 0 {
		return Score{}
	}

	var valenceSum float64
	var subjSum float64
	hits := 0

	for i, tok := range tokens {
		entry, ok := lexicon[tok]
		if !ok {
			continue
		}

		valence := entry.Valence
		if i > 0 {
			if negations[tokens[i-1]] {
				valence = -valence * 0.74
			} else if boost, ok := boosters[tokens[i-1]]; ok {
				valence *= boost
			}
		}

		valenceSum += valence
		subjSum += entry.Subjectivity
		hits++
	}

	score := Score{FinancialTerms: countFinancialTerms(clean)}
	if hits == 0 {
		return score
	}

	// Mean valence scaled to [-1, 1]
	score.Polarity = clamp(valenceSum/float64(hits)/maxValence, -1, 1)
	// VADER-style normalization of the raw sum
	score.Compound = valenceSum / math.Sqrt(valenceSum*valenceSum+15)
	// Subjectivity blends lexicon weights with hit density
	density := float64(hits) / float64(len(tokens))
	score.Subjectivity = clamp(0.5*(subjSum/float64(hits))+0.5*density, 0, 1)

	return score
}

// AnalyzeBatch scores a slice of texts in order
func (a *Analyzer) AnalyzeBatch(texts []string) []Score {
	scores := make([]Score, len(texts))
	for i, text := range texts {
		scores[i] = a.Analyze(text)
	}
	return scores
}

// ScoreArticles scores every article headline
func (a *Analyzer) ScoreArticles(articles []dataset.Article) []ScoredArticle {
	out := make([]ScoredArticle, len(articles))
	for i, art := range articles {
		out[i] = ScoredArticle{Article: art, Score: a.Analyze(art.Headline)}
	}
	return out
}

// Trend produces a time-ordered sentiment series with rolling means
func (a *Analyzer) Trend(scored []ScoredArticle) []TrendPoint {
	points := make([]TrendPoint, len(scored))
	for i, s := range scored {
		points[i] = TrendPoint{
			Timestamp: s.Article.Date,
			Polarity:  s.Score.Polarity,
			Compound:  s.Score.Compound,
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	// Rolling means are undefined until a full window is available
	w := a.config.RollingWindow
	for i := range points {
		if i < w-1 {
			points[i].RollingPolarity = math.NaN()
			points[i].RollingCompound = math.NaN()
			continue
		}
		var pSum, cSum float64
		for j := i - w + 1; j <= i; j++ {
			pSum += points[j].Polarity
			cSum += points[j].Compound
		}
		points[i].RollingPolarity = pSum / float64(w)
		points[i].RollingCompound = cSum / float64(w)
	}

	return points
}

// Summarize computes batch-level statistics over scores
func Summarize(scores []Score) SummaryStats {
	stats := SummaryStats{Count: len(scores)}
	if len(scores) == 0 {
		return stats
	}

	var pSum, cSum, sSum, fSum float64
	for _, s := range scores {
		pSum += s.Polarity
		cSum += s.Compound
		sSum += s.Subjectivity
		fSum += float64(s.FinancialTerms)
	}
	n := float64(len(scores))
	stats.PolarityMean = pSum / n
	stats.CompoundMean = cSum / n
	stats.SubjectivityMean = sSum / n
	stats.FinancialTermMean = fSum / n

	if len(scores) > 1 {
		var pVar, cVar float64
		for _, s := range scores {
			pVar += (s.Polarity - stats.PolarityMean) * (s.Polarity - stats.PolarityMean)
			cVar += (s.Compound - stats.CompoundMean) * (s.Compound - stats.CompoundMean)
		}
		stats.PolarityStd = math.Sqrt(pVar / (n - 1))
		stats.CompoundStd = math.Sqrt(cVar / (n - 1))
	}

	return stats
}

// countFinancialTerms counts each domain term present in the text at most
// once; substring matches qualify, so "bullish" counts for "bull".
func countFinancialTerms(text string) int {
	hits := 0
	for _, term := range financialTerms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	return hits
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
