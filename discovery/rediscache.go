package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTTL = time.Hour

var (
	ErrCacheGet       = errors.New("discovery: failed to read cached document")
	ErrCacheSet       = errors.New("discovery: failed to store document")
	ErrCacheMarshal   = errors.New("discovery: failed to marshal document")
	ErrCacheUnmarshal = errors.New("discovery: failed to unmarshal document")
)

// RedisCache shares discovery documents between processes, so a fleet of
// clients hits the discovery endpoint once per TTL instead of once per boot.
type RedisCache struct {
	client  redis.UniversalClient
	hashKey string
	ttl     time.Duration
}

func NewRedisCache(client redis.UniversalClient, hashKey string, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = defaultRedisTTL
	}

	return &RedisCache{
		client:  client,
		hashKey: hashKey,
		ttl:     ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Document, error) {
	data, err := c.client.HGet(ctx, c.hashKey, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}

		return nil, fmt.Errorf("%w: %w", ErrCacheGet, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheUnmarshal, err)
	}

	return &doc, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheMarshal, err)
	}

	if err := c.client.HSet(ctx, c.hashKey, key, data).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheSet, err)
	}

	if err := c.client.Expire(ctx, c.hashKey, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheSet, err)
	}

	return nil
}
