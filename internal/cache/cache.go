package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/finsight/finsight/internal/sentiment"
)

// Cache stores serialized values with a TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type memory struct {
	mu sync.Mutex
	m  map[string]entry
}

type entry struct {
	b   []byte
	exp time.Time
}

// NewMemory returns an in-process cache
func NewMemory() Cache { return &memory{m: make(map[string]entry)} }

func (c *memory) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		return nil, false
	}
	return e.b, true
}

func (c *memory) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{b: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = time.Now().Add(ttl)
	}
	c.m[key] = e
}

type redisCache struct {
	r       *redis.Client
	timeout time.Duration
}

// NewRedis returns a Redis-backed cache
func NewRedis(addr string, db int) Cache {
	return &redisCache{
		r:       redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		timeout: 500 * time.Millisecond,
	}
}

// New selects Redis when an address is configured, memory otherwise
func New(redisAddr string, redisDB int) Cache {
	if redisAddr != "" {
		return NewRedis(redisAddr, redisDB)
	}
	return NewMemory()
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	v, err := c.r.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_ = c.r.Set(ctx, key, val, ttl).Err()
}

// ScoreCache caches sentiment scores keyed by headline content
type ScoreCache struct {
	cache Cache
	ttl   time.Duration
}

// NewScoreCache wraps a cache with sentiment score serialization
func NewScoreCache(cache Cache, ttl time.Duration) *ScoreCache {
	return &ScoreCache{cache: cache, ttl: ttl}
}

// Key derives a stable cache key from headline text
func (s *ScoreCache) Key(headline string) string {
	sum := sha256.Sum256([]byte(headline))
	return "sentiment:" + hex.EncodeToString(sum[:16])
}

// Get returns a cached score for the headline, if present
func (s *ScoreCache) Get(ctx context.Context, headline string) (sentiment.Score, bool) {
	b, ok := s.cache.Get(ctx, s.Key(headline))
	if !ok {
		return sentiment.Score{}, false
	}
	var score sentiment.Score
	if err := json.Unmarshal(b, &score); err != nil {
		return sentiment.Score{}, false
	}
	return score, true
}

// Put stores a score for the headline
func (s *ScoreCache) Put(ctx context.Context, headline string, score sentiment.Score) {
	b, err := json.Marshal(score)
	if err != nil {
		return
	}
	s.cache.Set(ctx, s.Key(headline), b, s.ttl)
}
