package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces limiter keys in a shared Redis instance.
const defaultKeyPrefix = "ratelimit:"

// Redis is a fixed-window admission store backed by a shared Redis
// instance, for deployments running more than one service replica.
//
// The window is anchored at the first admission for a key: INCR starts
// the counter and an NX expiry pins the window duration, so subsequent
// calls within the window never extend it.
type Redis struct {
	client redis.UniversalClient
	prefix string
	window time.Duration
	limit  int
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix overrides the key namespace prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis creates a Redis-backed store admitting up to limit calls per
// key per window.
func NewRedis(client redis.UniversalClient, limit int, window time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: defaultKeyPrefix,
		window: window,
		limit:  limit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Admit implements Store. It returns an error when Redis is unreachable;
// the caller decides whether that fails open or closed.
func (r *Redis) Admit(ctx context.Context, key string, _ time.Time) (bool, error) {
	k := r.prefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: redis admit: %w", err)
	}

	return incr.Val() <= int64(r.limit), nil
}

// Healthcheck returns a readiness probe for the backing Redis connection.
func (r *Redis) Healthcheck() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return r.client.Ping(ctx).Err()
	}
}
