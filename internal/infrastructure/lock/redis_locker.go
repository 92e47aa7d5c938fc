package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/proposals/internal/domain/shared"
	"go.uber.org/zap"
)

const releaseTimeout = 5 * time.Second

// RedisLocker holds per-key locks in Redis so that every replica of the
// service serializes on the same key.
type RedisLocker struct {
	client    *redislock.Client
	keyPrefix string
	ttl       time.Duration
	wait      time.Duration
	retry     time.Duration
	logger    *zap.Logger
}

// NewRedisLocker creates a Redis-backed locker
func NewRedisLocker(client redislock.RedisClient, opts ...Option) *RedisLocker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisLocker{
		client:    redislock.New(client),
		keyPrefix: o.keyPrefix,
		ttl:       o.ttl,
		wait:      o.wait,
		retry:     o.retry,
		logger:    o.logger,
	}
}

// Lock obtains the key, retrying linearly until the wait budget runs out
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lk, err := l.client.Obtain(waitCtx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.logger.Warn("lock contention",
			zap.String("key", key),
			zap.Duration("wait", l.wait),
		)
		return nil, shared.ErrLockNotAcquired
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %q: %w", key, err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Ensure RedisLocker implements shared.Locker
var _ shared.Locker = (*RedisLocker)(nil)
