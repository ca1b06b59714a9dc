// Package redis caches encoded feature payloads in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"featurecard/domain/feature"
	"featurecard/ports"
)

const keyPrefix = "featurecard"

// FeatureCache stores payloads under featurecard:<fileId>:<kind>:<column>.
type FeatureCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.FeatureCache = (*FeatureCache)(nil)

// NewFeatureCache connects to the Redis server at url (redis://...) and
// checks it is reachable.
func NewFeatureCache(ctx context.Context, url string, ttl time.Duration) (*FeatureCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewFeatureCacheFromClient(client, ttl), nil
}

// NewFeatureCacheFromClient wraps an existing client.
func NewFeatureCacheFromClient(client *redis.Client, ttl time.Duration) *FeatureCache {
	return &FeatureCache{client: client, ttl: ttl}
}

func (c *FeatureCache) Get(ctx context.Context, key feature.Key, kind string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(key, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *FeatureCache) Set(ctx context.Context, key feature.Key, kind string, payload []byte) error {
	return c.client.Set(ctx, cacheKey(key, kind), payload, c.ttl).Err()
}

// Invalidate drops every payload cached for a file.
func (c *FeatureCache) Invalidate(ctx context.Context, fileID string) error {
	iter := c.client.Scan(ctx, 0, filePattern(fileID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the connection pool.
func (c *FeatureCache) Close() error {
	return c.client.Close()
}

func cacheKey(key feature.Key, kind string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, key.FileID, kind, key.Column)
}

func filePattern(fileID string) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, fileID)
}
