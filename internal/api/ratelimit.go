package api

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/kscanner/pkg/config"
	"github.com/wonny/kscanner/pkg/redis"
)

// Limiter decides whether one more request for key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter is an in-process token bucket per key
type LocalLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewLocalLimiter creates a token bucket limiter
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow(), nil
}

// RedisLimiter shares a sliding window across replicas
type RedisLimiter struct {
	limiter *redis.RateLimiter
	limit   int
	window  time.Duration
}

// NewRedisLimiter admits burst requests per burst/rps window
func NewRedisLimiter(rl *redis.RateLimiter, rps float64, burst int) *RedisLimiter {
	window := time.Duration(math.Ceil(float64(burst) / rps * float64(time.Second)))
	return &RedisLimiter{limiter: rl, limit: burst, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.limiter.Allow(ctx, redis.RateLimitConfig{
		Key:    key,
		Limit:  l.limit,
		Window: l.window,
	})
	return allowed, err
}

// NewLimiter picks the Redis limiter when Redis is enabled
func NewLimiter(cfg config.RateLimitConfig, client *redis.Client) Limiter {
	if client != nil && client.Enabled() {
		return NewRedisLimiter(redis.NewRateLimiter(client, redis.KeyPrefix), cfg.RPS, cfg.Burst)
	}
	return NewLocalLimiter(cfg.RPS, cfg.Burst)
}
