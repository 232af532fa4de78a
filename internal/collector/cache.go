package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"StockForecast/internal/model"
)

type cacheEntry struct {
	obs       []model.Observation
	fetchedAt time.Time
}

// DefaultFetchTimeout bounds a shared fetch once it no longer follows any
// single caller's context.
const DefaultFetchTimeout = 30 * time.Second

// CachedFetcher wraps a Fetcher with a short-lived cache keyed by
// (symbol, period). Concurrent misses for one key share a single fetch that
// outlives any one caller; each caller stops waiting when its own ctx ends.
// Errors are never cached.
type CachedFetcher struct {
	Fetcher      Fetcher
	TTL          time.Duration
	FetchTimeout time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
	now     func() time.Time
}

// NewCachedFetcher creates a cache in front of f. A non-positive ttl disables caching.
func NewCachedFetcher(f Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		Fetcher:      f,
		TTL:          ttl,
		FetchTimeout: DefaultFetchTimeout,
		entries:      make(map[string]cacheEntry),
		now:          time.Now,
	}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() + "+cache" }

func cacheKey(symbol, period string) string { return symbol + "|" + period }

func (c *CachedFetcher) FetchHistory(ctx context.Context, symbol, period string) ([]model.Observation, error) {
	if c.TTL <= 0 {
		return c.Fetcher.FetchHistory(ctx, symbol, period)
	}
	key := cacheKey(symbol, period)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetchedAt) < c.TTL {
		return e.obs, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()
		obs, err := c.Fetcher.FetchHistory(fetchCtx, symbol, period)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{obs: obs, fetchedAt: c.now()}
		c.mu.Unlock()
		return obs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Observation), nil
	}
}

func (c *CachedFetcher) fetchTimeout() time.Duration {
	if c.FetchTimeout > 0 {
		return c.FetchTimeout
	}
	return DefaultFetchTimeout
}

// Evict drops expired entries and returns how many were removed.
func (c *CachedFetcher) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if c.now().Sub(e.fetchedAt) >= c.TTL {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of cached series, expired or not.
func (c *CachedFetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Warm fetches every symbol for period, reusing entries that are still fresh.
// It returns the number of symbols now cached.
func (c *CachedFetcher) Warm(ctx context.Context, symbols []string, period string) int {
	warmed := 0
	for _, s := range symbols {
		if ctx.Err() != nil {
			break
		}
		s = NormalizeSymbol(s)
		if _, err := c.FetchHistory(ctx, s, period); err != nil {
			log.Printf("[WARN] warm cache %s/%s: %v", s, period, err)
			continue
		}
		warmed++
	}
	return warmed
}
