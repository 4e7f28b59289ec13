package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/kscanner/pkg/config"
)

// KeyPrefix namespaces every key the scanner writes (batch mirror, rate buckets)
const KeyPrefix = "kscanner"

// connectTimeout bounds the startup ping so a dead Redis does not stall serve
const connectTimeout = 3 * time.Second

// Client is the optional Redis connection behind the last-batch mirror and
// the shared refresh/export rate limit. When Redis is disabled every helper
// in this package degrades to a no-op and the scanner runs memory-only.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb     *redis.Client
	addr    string
	enabled bool
}

// New connects when Redis is enabled and returns a disabled client otherwise
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	addr := net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: connectTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("batch mirror redis at %s unreachable: %w", addr, err)
	}

	return &Client{rdb: rdb, addr: addr, enabled: true}, nil
}

// Wrap adopts an existing connection (tests, shared pools)
func Wrap(rdb *redis.Client) *Client {
	if rdb == nil {
		return &Client{}
	}
	return &Client{rdb: rdb, addr: rdb.Options().Addr, enabled: true}
}

// Close releases the connection; closing a disabled client is a no-op
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Enabled reports whether batches are mirrored and rate limits shared
func (c *Client) Enabled() bool {
	return c.enabled
}

// Addr is the host:port in use, empty when disabled
func (c *Client) Addr() string {
	return c.addr
}

// Redis exposes the raw client to the cache and limiter in this package
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Ping backs the health endpoint; a memory-only scanner is always healthy
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
