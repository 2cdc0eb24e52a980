// Package cache is a thin JSON cache over Redis GET/SETEX. When Redis is
// unreachable at startup every operation becomes a no-op (a permanent miss),
// so the rest of the system never sees a cache error.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TTLs per operation class: point lookups live longer than search result
// lists.
const (
	LookupTTL = time.Hour
	SearchTTL = 30 * time.Minute
)

type Cache struct {
	client *redis.Client // nil when disabled
	log    *zap.Logger
}

// New connects to Redis and pings it. On failure the cache is disabled and
// that is logged once; callers get misses from then on.
func New(addr string, db int, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, caching disabled", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return &Cache{log: log}
	}

	log.Info("connected to redis", zap.String("addr", addr))
	return &Cache{client: client, log: log}
}

// Disabled builds a cache that always misses. Used by tests and tools that
// should never touch Redis.
func Disabled() *Cache {
	return &Cache{log: zap.NewNop()}
}

// Enabled reports whether a Redis backend is connected.
func (c *Cache) Enabled() bool { return c.client != nil }

// Key derives a deterministic cache key from an operation name and its
// keyword arguments: kwargs sorted by name, empty values skipped, and the
// whole key lower-cased. This is the single canonicalization rule for every
// call site.
func Key(operation string, kwargs map[string]string) string {
	parts := []string{operation}

	names := make([]string, 0, len(kwargs))
	for k, v := range kwargs {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	for _, k := range names {
		parts = append(parts, k+":"+kwargs[k])
	}
	return strings.ToLower(strings.Join(parts, ":"))
}

// Get unmarshals the value stored under key into dest and reports whether it
// was a hit. Backend errors count as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("cache read error", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Warn("cache entry corrupt, ignoring", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key with the given TTL. Failures are logged and
// swallowed.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal error", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache write error", zap.String("key", key), zap.Error(err))
	}
}

// Flush drops everything in the configured Redis database.
func (c *Cache) Flush(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.FlushDB(ctx).Err()
}
