package infra

// cache.go — entity-scoped read-through cache over Redis.
//
// Keys are namespaced per entity scope ("inventario", "ventas", "precios").
// Every key written under a scope is also tracked in a Redis set
// (cachekeys:{scope}) so Invalidate can drop the whole scope in one call.
// The contract callers rely on:
//   - Get/Set never surface Redis errors; a miss or failure just means the
//     caller goes to the database.
//   - Mutating an entity MUST call Invalidate(scope) afterwards — stale reads
//     are otherwise served until the TTL expires.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKeyIndexPrefix = "cachekeys:"

// Cache is a JSON value cache scoped per data entity.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(scope, key string) string { return "cache:" + scope + ":" + key }

// Get unmarshals the cached value into dest. Returns false on miss or any
// Redis/JSON error.
func (c *Cache) Get(ctx context.Context, scope, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, cacheKey(scope, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// Set stores v under the scope, best effort.
func (c *Cache) Set(ctx context.Context, scope, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	full := cacheKey(scope, key)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, full, raw, c.ttl)
	pipe.SAdd(ctx, cacheKeyIndexPrefix+scope, full)
	pipe.Expire(ctx, cacheKeyIndexPrefix+scope, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Debug().Err(err).Str("scope", scope).Msg("cache: set failed")
	}
}

// Invalidate drops every key written under the scope.
func (c *Cache) Invalidate(ctx context.Context, scope string) {
	idx := cacheKeyIndexPrefix + scope
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		log.Debug().Err(err).Str("scope", scope).Msg("cache: invalidate read failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	keys = append(keys, idx)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Str("scope", scope).Msg("cache: invalidate del failed")
	}
}
