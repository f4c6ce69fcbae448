package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/finsight/finsight/internal/persistence"
	"github.com/finsight/finsight/internal/sentiment"
)

// scoresRepo implements ScoresRepo for PostgreSQL
type scoresRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewScoresRepo creates a PostgreSQL sentiment scores repository
func NewScoresRepo(db *sqlx.DB, timeout time.Duration) persistence.ScoresRepo {
	return &scoresRepo{db: db, timeout: timeout}
}

// InsertBatch stores scored articles atomically
func (r *scoresRepo) InsertBatch(ctx context.Context, scored []sentiment.ScoredArticle) error {
	if len(scored) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(scored)/100+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sentiment_scores (headline, stock, published_at, polarity, subjectivity, compound, term_hits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range scored {
		_, err := stmt.ExecContext(ctx,
			s.Article.Headline, s.Article.Stock, s.Article.Date,
			s.Score.Polarity, s.Score.Subjectivity, s.Score.Compound, s.Score.FinancialTerms)
		if err != nil {
			return fmt.Errorf("failed to insert score: %w", err)
		}
	}

	return tx.Commit()
}

// ListByStock retrieves scores for a symbol within a time range, newest first
func (r *scoresRepo) ListByStock(ctx context.Context, stock string, tr persistence.TimeRange, limit int) ([]persistence.StoredScore, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, headline, stock, published_at, polarity, subjectivity, compound, term_hits, created_at
		FROM sentiment_scores
		WHERE stock = $1 AND published_at >= $2 AND published_at <= $3
		ORDER BY published_at DESC
		LIMIT $4`

	var scores []persistence.StoredScore
	if err := r.db.SelectContext(ctx, &scores, query, stock, tr.Start, tr.End, limit); err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

// MeanCompoundByStock aggregates mean compound sentiment per symbol
func (r *scoresRepo) MeanCompoundByStock(ctx context.Context, tr persistence.TimeRange) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT stock, AVG(compound) AS mean_compound
		FROM sentiment_scores
		WHERE published_at >= $1 AND published_at <= $2
		GROUP BY stock`

	rows, err := r.db.QueryxContext(ctx, query, tr.Start, tr.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var stock string
		var mean float64
		if err := rows.Scan(&stock, &mean); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		out[stock] = mean
	}
	return out, rows.Err()
}
