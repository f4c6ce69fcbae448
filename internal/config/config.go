package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root application configuration
type Config struct {
	Data      DataConfig      `yaml:"data" validate:"required"`
	Output    OutputConfig    `yaml:"output"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DatabaseConfig  `yaml:"database"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Server    ServerConfig    `yaml:"server"`
}

// DataConfig points at the input datasets
type DataConfig struct {
	NewsPath   string `yaml:"news_path" validate:"required"`
	PricesPath string `yaml:"prices_path" validate:"required"`
}

// OutputConfig controls artifact locations
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	ArtifactsDir string `yaml:"artifacts_dir"`
}

// SentimentConfig tunes the sentiment analyzer
type SentimentConfig struct {
	RollingWindow int `yaml:"rolling_window" validate:"gte=0"`
}

// CacheConfig configures the score cache
type CacheConfig struct {
	RedisAddr         string `yaml:"redis_addr"`
	RedisDB           int    `yaml:"redis_db"`
	DefaultTTLSeconds int    `yaml:"default_ttl_seconds" validate:"gte=0"`
}

// DefaultTTL returns the cache TTL as a duration
func (c CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// DatabaseConfig configures optional Postgres persistence
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// FetchConfig configures the news fetcher
type FetchConfig struct {
	Sources           []SourceConfig `yaml:"sources" validate:"dive"`
	RequestsPerSecond float64        `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int            `yaml:"burst" validate:"gte=0"`
	Timeout           time.Duration  `yaml:"timeout"`
}

// SourceConfig describes one news source
type SourceConfig struct {
	Name             string `yaml:"name" validate:"required"`
	URL              string `yaml:"url" validate:"required,url"`
	HeadlineSelector string `yaml:"headline_selector" validate:"required"`
	LinkSelector     string `yaml:"link_selector"`
	Stock            string `yaml:"stock"`
}

// ServerConfig configures the read-only HTTP API
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Default returns the baseline configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			NewsPath:   "data/financial_news.csv",
			PricesPath: "data/stock_prices.csv",
		},
		Output: OutputConfig{
			Dir:          "out/analysis",
			ArtifactsDir: "out/runs",
		},
		Sentiment: SentimentConfig{RollingWindow: 5},
		Cache: CacheConfig{
			DefaultTTLSeconds: 300,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			QueryTimeout:    30 * time.Second,
		},
		Fetch: FetchConfig{
			RequestsPerSecond: 1.0,
			Burst:             3,
			Timeout:           10 * time.Second,
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Load reads, merges over defaults, and validates a YAML config file
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
