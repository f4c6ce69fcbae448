package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/finsight/finsight/internal/dataset"
	"github.com/finsight/finsight/internal/persistence"
)

// articlesRepo implements ArticlesRepo for PostgreSQL
type articlesRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewArticlesRepo creates a PostgreSQL articles repository
func NewArticlesRepo(db *sqlx.DB, timeout time.Duration) persistence.ArticlesRepo {
	return &articlesRepo{db: db, timeout: timeout}
}

// InsertBatch adds articles atomically; duplicate (headline, published_at,
// stock) rows are reported as an error.
func (r *articlesRepo) InsertBatch(ctx context.Context, articles []dataset.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(articles)/100+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (headline, publisher, published_at, stock, url)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		if _, err := stmt.ExecContext(ctx, a.Headline, a.Publisher, a.Date, a.Stock, a.URL); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("duplicate article %q: %w", a.Headline, err)
			}
			return fmt.Errorf("failed to insert article: %w", err)
		}
	}

	return tx.Commit()
}

// ListByStock retrieves articles for a symbol within a time range, newest first
func (r *articlesRepo) ListByStock(ctx context.Context, stock string, tr persistence.TimeRange, limit int) ([]dataset.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT headline, publisher, published_at, stock, url
		FROM articles
		WHERE stock = $1 AND published_at >= $2 AND published_at <= $3
		ORDER BY published_at DESC
		LIMIT $4`

	var articles []dataset.Article
	if err := r.db.SelectContext(ctx, &articles, query, stock, tr.Start, tr.End, limit); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// Count returns the total number of stored articles
func (r *articlesRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}
