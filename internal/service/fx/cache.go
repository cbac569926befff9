package fx

import (
	"context"
	"sync"
	"time"

	"AntVillage/internal/domain/repository"
	"AntVillage/pkg/logger"
)

// DefaultTTL is the freshness window for a cached rate.
const DefaultTTL = 5 * time.Minute

// RateCache holds a single USD to KRW rate behind a mutex. A fetch is
// attempted only when the cache is empty or older than the TTL. On
// fetch failure the last known value is served; before any successful
// fetch the rate is 1.0 and flagged as unknown so callers can surface
// that converted values are approximate.
type RateCache struct {
	mu        sync.Mutex
	provider  repository.RateProvider
	ttl       time.Duration
	rate      float64
	known     bool
	fetchedAt time.Time
	log       *logger.Logger
}

type CacheOption func(*RateCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RateCache) {
		c.ttl = ttl
	}
}

func WithCacheLogger(log *logger.Logger) CacheOption {
	return func(c *RateCache) {
		c.log = log
	}
}

func NewRateCache(provider repository.RateProvider, opts ...CacheOption) *RateCache {
	c := &RateCache{
		provider: provider,
		ttl:      DefaultTTL,
		rate:     1.0,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the cached rate, refreshing it when stale. The second
// return value is false when the rate is a fallback (never fetched
// successfully), true when it comes from a real provider response.
func (c *RateCache) Rate(ctx context.Context) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.known && time.Since(c.fetchedAt) < c.ttl {
		return c.rate, true
	}

	rate, err := c.provider.FetchRate(ctx)
	if err != nil {
		c.log.Warn("exchange rate fetch failed, serving last known value",
			logger.Bool("known", c.known),
			logger.Error(err))
		return c.rate, c.known
	}

	c.rate = rate
	c.known = true
	c.fetchedAt = time.Now()
	return c.rate, true
}
