// Package cache provides a byte-oriented key/value cache backed by Redis,
// with a no-op implementation for when caching is disabled.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/lawfinder/pkg/lifecycle"
)

// ErrMiss indicates the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// System is a key/value cache with lifecycle hooks.
type System interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Start(lc *lifecycle.Coordinator) error
	Ready() bool
}

type redisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	ready  atomic.Bool
}

// New returns a Redis-backed cache when cfg is enabled, otherwise a no-op cache.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled() {
		return Noop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisCache{
		client: client,
		prefix: cfg.Prefix,
		logger: logger.With("system", "cache"),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Ready() bool {
	return c.ready.Load()
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache")

	lc.OnStartup(func() {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}
		c.ready.Store(true)
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown("cache", func() {
		c.ready.Store(false)
		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
		}
	})

	return nil
}

type noop struct{}

// Noop returns a cache that never stores anything and is always ready.
func Noop() System {
	return noop{}
}

func (noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noop) Start(*lifecycle.Coordinator) error { return nil }

func (noop) Ready() bool { return true }
