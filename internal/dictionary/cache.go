package dictionary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrCacheMiss is returned by a Cache for an absent key.
var ErrCacheMiss = errors.New("dictionary: cache miss")

// Cache is a string key-value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache is a Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redisURL (redis://host:port/db) and pings it.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Info().Str("addr", opts.Addr).Msg("connected to redis")
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// TranslateKey is the cache key of a translation.
// Format: "translate:from:to:word" (e.g., "translate:hungarian:english:alma").
func TranslateKey(word, from, to string) string {
	return "translate:" + strings.ToLower(from) + ":" + strings.ToLower(to) + ":" + word
}

// Cached puts a read-through translation cache in front of a Lookup. Cache
// failures are logged and fall through to the backing Lookup.
type Cached struct {
	Lookup
	cache Cache
	ttl   time.Duration
}

// NewCached wraps next with cache; ttl 0 means no expiry.
func NewCached(next Lookup, cache Cache, ttl time.Duration) *Cached {
	return &Cached{Lookup: next, cache: cache, ttl: ttl}
}

func (c *Cached) Translate(ctx context.Context, word, from, to string) (string, bool, error) {
	key := TranslateKey(word, from, to)
	v, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		return v, true, nil
	case !errors.Is(err, ErrCacheMiss):
		log.Warn().Err(err).Str("key", key).Msg("translation cache read")
	}

	tr, ok, err := c.Lookup.Translate(ctx, word, from, to)
	if err != nil || !ok {
		return tr, ok, err
	}
	if err := c.cache.Set(ctx, key, tr, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("translation cache write")
	}
	return tr, true, nil
}
