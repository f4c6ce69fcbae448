package persistence

import (
	"context"
	"time"

	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/sentiment"
)

// TimeRange bounds a query window (inclusive)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// StoredScore is a persisted sentiment score row
type StoredScore struct {
	ID           int64     `db:"id" json:"id"`
	Headline     string    `db:"headline" json:"headline"`
	Stock        string    `db:"stock" json:"stock"`
	PublishedAt  time.Time `db:"published_at" json:"published_at"`
	Polarity     float64   `db:"polarity" json:"polarity"`
	Subjectivity float64   `db:"subjectivity" json:"subjectivity"`
	Compound     float64   `db:"compound" json:"compound"`
	TermHits     int       `db:"term_hits" json:"term_hits"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ArticlesRepo persists news articles
type ArticlesRepo interface {
	InsertBatch(ctx context.Context, articles []dataset.Article) error
	ListByStock(ctx context.Context, stock string, tr TimeRange, limit int) ([]dataset.Article, error)
	Count(ctx context.Context) (int, error)
}

// ScoresRepo persists sentiment scores
type ScoresRepo interface {
	InsertBatch(ctx context.Context, scored []sentiment.ScoredArticle) error
	ListByStock(ctx context.Context, stock string, tr TimeRange, limit int) ([]StoredScore, error)
	MeanCompoundByStock(ctx context.Context, tr TimeRange) (map[string]float64, error)
}

// Repository bundles all repos behind one handle
type Repository struct {
	Articles ArticlesRepo
	Scores   ScoresRepo
}
