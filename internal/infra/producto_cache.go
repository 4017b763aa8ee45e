package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const productoCachePrefix = "producto:consulta:"

// ProductoCache stores product lookup responses in Redis. A nil cache or a
// nil client is a no-op, so callers never branch on availability.
type ProductoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductoCache(rdb *redis.Client, ttl time.Duration) *ProductoCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductoCache{rdb: rdb, ttl: ttl}
}

func (c *ProductoCache) enabled() bool { return c != nil && c.rdb != nil }

func productoKey(id uuid.UUID) string { return productoCachePrefix + id.String() }

// Get decodes a cached value into dest. It reports false on miss or error.
func (c *ProductoCache) Get(ctx context.Context, id uuid.UUID, dest any) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, productoKey(id)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores v; errors are logged and swallowed.
func (c *ProductoCache) Set(ctx context.Context, id uuid.UUID, v any) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productoKey(id), b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", id.String()).Msg("cache: set failed")
	}
}

// Invalidar drops the cached lookups for the given products.
func (c *ProductoCache) Invalidar(ctx context.Context, ids ...uuid.UUID) {
	if !c.enabled() || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productoKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Int("keys", len(keys)).Msg("cache: invalidate failed")
	}
}
