package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// CatalogCache stores JSON-encodable catalog projections.
type CatalogCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type noopCatalogCache struct{}

func (noopCatalogCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCatalogCache) Set(context.Context, string, any) error         { return nil }

func NoopCatalogCache() CatalogCache { return noopCatalogCache{} }

type RedisCatalogCache struct {
	Redis  *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{Redis: rdb, TTL: ttl, Prefix: "design_test:catalog:"}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.Redis.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, c.Prefix+key, raw, c.TTL).Err()
}
