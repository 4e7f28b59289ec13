package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/kscanner/internal/contracts"
)

// Cache provides typed JSON caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A missing key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL (0 = no expiry)
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if err := c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	if err := c.client.Redis().Del(ctx, c.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// LastBatchKey holds the most recent generated batch
const LastBatchKey = "batch:last"

// BatchCache mirrors the last generated batch into Redis so every replica
// behind a load balancer serves the same rows. It satisfies the pipeline's
// BatchCache interface.
type BatchCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewBatchCache creates a batch mirror with the given TTL
func NewBatchCache(client *Client, ttl time.Duration) *BatchCache {
	return &BatchCache{
		cache: NewCache(client, KeyPrefix),
		ttl:   ttl,
	}
}

// Load returns the mirrored batch, if any
func (b *BatchCache) Load(ctx context.Context) (*contracts.Batch, bool, error) {
	var batch contracts.Batch
	found, err := b.cache.Get(ctx, LastBatchKey, &batch)
	if err != nil || !found {
		return nil, false, err
	}
	return &batch, true, nil
}

// Store replaces the mirrored batch
func (b *BatchCache) Store(ctx context.Context, batch *contracts.Batch) error {
	return b.cache.Set(ctx, LastBatchKey, batch, b.ttl)
}

// Clear drops the mirrored batch
func (b *BatchCache) Clear(ctx context.Context) error {
	return b.cache.Delete(ctx, LastBatchKey)
}
