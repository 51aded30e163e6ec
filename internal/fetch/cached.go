package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/cache"
)

type cached struct {
	next   Service
	cache  cache.System
	ttl    time.Duration
	logger *slog.Logger
}

// Cached wraps next so that non-empty results are stored in c for ttl
// and served from it on subsequent fetches of the same URL.
func Cached(next Service, c cache.System, ttl time.Duration, logger *slog.Logger) Service {
	return &cached{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("system", "fetch-cache"),
	}
}

func (c *cached) Fetch(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	var (
		misses []string
		slots  []int
	)

	for i, u := range urls {
		if res, ok := c.lookup(ctx, u); ok {
			results[i] = res
			continue
		}
		misses = append(misses, u)
		slots = append(slots, i)
	}

	if len(misses) == 0 {
		return results
	}

	for j, res := range c.next.Fetch(ctx, misses) {
		results[slots[j]] = res
		if res.Text != "" {
			c.store(ctx, res)
		}
	}

	return results
}

func (c *cached) lookup(ctx context.Context, u string) (Result, bool) {
	data, err := c.cache.Get(ctx, cacheKey(u))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn("cache read failed", "url", u, "error", err)
		}
		return Result{}, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, false
	}
	return res, true
}

func (c *cached) store(ctx context.Context, res Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(res.URL), data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "url", res.URL, "error", err)
	}
}

func cacheKey(u string) string {
	sum := sha1.Sum([]byte(u))
	return "fetch:" + hex.EncodeToString(sum[:])
}
