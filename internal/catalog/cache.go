package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "catalog:version"

// Cache wraps Redis based caching of product listings with a version
// counter. Writes bump the version instead of enumerating keys, so stale
// pages simply age out at their TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// key composes a versioned cache key.
func (c *Cache) key(ctx context.Context, suffix string) (string, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("catalog:v%d:%s", ver, suffix), nil
}

// FetchProducts loads a cached product page or populates it via loader.
// Cache failures fall back to the loader; the catalog must keep serving
// when Redis is down.
func (c *Cache) FetchProducts(ctx context.Context, suffix string, loader func(context.Context) (ProductPage, error)) (ProductPage, error) {
	if !c.enabled() {
		return loader(ctx)
	}
	key, err := c.key(ctx, suffix)
	if err != nil {
		return loader(ctx)
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var page ProductPage
		if err := json.Unmarshal(raw, &page); err == nil {
			return page, nil
		}
	}
	page, err := loader(ctx)
	if err != nil {
		return ProductPage{}, err
	}
	if encoded, err := json.Marshal(page); err == nil {
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return page, nil
}

// Invalidate bumps the version so subsequent reads miss.
func (c *Cache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	_ = c.client.Incr(ctx, cacheVersionKey).Err()
}
