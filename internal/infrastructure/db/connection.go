package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/persistence"
	"github.com/finsight/finsight/internal/persistence/postgres"
)

// Manager manages the database connection and repository instances
type Manager struct {
	db     *sqlx.DB
	config config.DatabaseConfig
	repos  *persistence.Repository
}

// NewManager opens a connection pool and wires repositories.
// A disabled config yields a manager with nil repositories.
func NewManager(cfg config.DatabaseConfig) (*Manager, error) {
	if !cfg.Enabled {
		return &Manager{config: cfg}, nil
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required when enabled")
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Manager{
		db:     db,
		config: cfg,
		repos: &persistence.Repository{
			Articles: postgres.NewArticlesRepo(db, cfg.QueryTimeout),
			Scores:   postgres.NewScoresRepo(db, cfg.QueryTimeout),
		},
	}, nil
}

// Repository returns the repository collection, or nil when disabled
func (m *Manager) Repository() *persistence.Repository {
	return m.repos
}

// Enabled reports whether persistence is active
func (m *Manager) Enabled() bool {
	return m.repos != nil
}

// Health verifies the connection is alive
func (m *Manager) Health(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.config.QueryTimeout)
	defer cancel()
	return m.db.PingContext(ctx)
}

// Close releases the connection pool
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
