// internal/common/auth/cache.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/metrics"
)

// TokenCache stores verified users by TokenKey.
type TokenCache interface {
	Get(ctx context.Context, key string) (*User, bool)
	Set(ctx context.Context, key string, user *User)
}

type lruEntry struct {
	user      User
	expiresAt time.Time
}

// LRUTokenCache is a bounded in-process cache with per-entry expiry.
type LRUTokenCache struct {
	cache *lru.Cache[string, lruEntry]
	ttl   time.Duration
	now   func() time.Time
}

func NewLRUTokenCache(size int, ttl time.Duration) (*LRUTokenCache, error) {
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUTokenCache{cache: c, ttl: ttl, now: time.Now}, nil
}

func (c *LRUTokenCache) Get(ctx context.Context, key string) (*User, bool) {
	entry, ok := c.cache.Get(key)
	if !ok {
		metrics.AuthCacheLookups.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		metrics.AuthCacheLookups.WithLabelValues("memory", "expired").Inc()
		return nil, false
	}
	metrics.AuthCacheLookups.WithLabelValues("memory", "hit").Inc()
	user := entry.user
	return &user, true
}

func (c *LRUTokenCache) Set(ctx context.Context, key string, user *User) {
	c.cache.Add(key, lruEntry{user: *user, expiresAt: c.now().Add(c.ttl)})
}

// RedisTokenCache shares verified users across instances. Redis errors count as misses.
type RedisTokenCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisTokenCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisTokenCache {
	return &RedisTokenCache{client: client, ttl: ttl, logger: log}
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (*User, bool) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("token cache read failed", map[string]interface{}{"error": err.Error()})
			metrics.AuthCacheLookups.WithLabelValues("redis", "error").Inc()
			return nil, false
		}
		metrics.AuthCacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		c.logger.Warn("token cache entry is corrupt", map[string]interface{}{"error": err.Error()})
		metrics.AuthCacheLookups.WithLabelValues("redis", "error").Inc()
		return nil, false
	}
	metrics.AuthCacheLookups.WithLabelValues("redis", "hit").Inc()
	return &user, true
}

func (c *RedisTokenCache) Set(ctx context.Context, key string, user *User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		c.logger.Warn("token cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// TieredTokenCache reads tiers in order and back-fills earlier tiers on a later hit.
type TieredTokenCache struct {
	tiers []TokenCache
}

func NewTieredTokenCache(tiers ...TokenCache) *TieredTokenCache {
	return &TieredTokenCache{tiers: tiers}
}

func (c *TieredTokenCache) Get(ctx context.Context, key string) (*User, bool) {
	for i, tier := range c.tiers {
		if user, ok := tier.Get(ctx, key); ok {
			for j := 0; j < i; j++ {
				c.tiers[j].Set(ctx, key, user)
			}
			return user, true
		}
	}
	return nil, false
}

func (c *TieredTokenCache) Set(ctx context.Context, key string, user *User) {
	for _, tier := range c.tiers {
		tier.Set(ctx, key, user)
	}
}
