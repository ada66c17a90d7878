package collector

import (
	"sync"
	"time"

	"StockPulse/internal/model"
)

type cacheEntry struct {
	points    []model.PricePoint
	fetchedAt time.Time
}

// CachedFetcher wraps a Fetcher with a short TTL cache so that a refresh
// loop ticking faster than the data source updates does not hammer it.
// Failures are never cached; the next call goes to the source again.
type CachedFetcher struct {
	inner Fetcher
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedFetcher wraps inner with a TTL cache.
func NewCachedFetcher(inner Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Name() string { return c.inner.Name() + "+cache" }

func (c *CachedFetcher) FetchIntraday(symbol, lookback, interval string) ([]model.PricePoint, error) {
	key := symbol + "|" + lookback + "|" + interval

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.points, nil
	}
	c.mu.Unlock()

	points, err := c.inner.FetchIntraday(symbol, lookback, interval)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{points: points, fetchedAt: c.now()}
	c.mu.Unlock()
	return points, nil
}
