package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "issuance:config"

// ErrCacheMiss indicates the instance has no cached record.
var ErrCacheMiss = errors.New("config cache miss")

// ConfigCache caches decrypted flat configuration records per instance.
// Implementations must treat cached data as advisory: callers fall back to
// the repository on ErrCacheMiss or any other error.
type ConfigCache interface {
	Get(ctx context.Context, instanceName string) (map[string][]string, error)
	Set(ctx context.Context, instanceName string, flat map[string][]string) error
	Invalidate(ctx context.Context, instanceName string) error
}

type redisConfigCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConfigCache returns a read-through cache backed by Redis. Records
// are stored JSON-encoded under "issuance:config:<instance>" with the given
// TTL.
func NewRedisConfigCache(client *redis.Client, ttl time.Duration) ConfigCache {
	return &redisConfigCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisConfigCache) key(instanceName string) string {
	return cacheKeyPrefix + ":" + instanceName
}

// Get returns the cached record or ErrCacheMiss.
func (c *redisConfigCache) Get(ctx context.Context, instanceName string) (map[string][]string, error) {
	data, err := c.client.Get(ctx, c.key(instanceName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read config cache: %w", err)
	}

	var flat map[string][]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode cached config: %w", err)
	}

	return flat, nil
}

// Set stores the record with the configured TTL.
func (c *redisConfigCache) Set(ctx context.Context, instanceName string, flat map[string][]string) error {
	data, err := json.Marshal(flat)
	if err != nil {
		return fmt.Errorf("failed to encode config for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key(instanceName), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write config cache: %w", err)
	}

	return nil
}

// Invalidate removes the instance's cached record.
func (c *redisConfigCache) Invalidate(ctx context.Context, instanceName string) error {
	if err := c.client.Del(ctx, c.key(instanceName)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate config cache: %w", err)
	}
	return nil
}

type noopConfigCache struct{}

// NewNoopConfigCache returns a cache for deployments where caching is
// disabled: Get always misses and writes succeed without storing anything.
func NewNoopConfigCache() ConfigCache {
	return &noopConfigCache{}
}

func (c *noopConfigCache) Get(_ context.Context, _ string) (map[string][]string, error) {
	return nil, ErrCacheMiss
}

func (c *noopConfigCache) Set(_ context.Context, _ string, _ map[string][]string) error {
	return nil
}

func (c *noopConfigCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
