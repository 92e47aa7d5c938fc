package lock

import (
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewLocker picks the Redis locker when a client is given and falls back to
// the in-process locker otherwise.
func NewLocker(cfg config.LockConfig, client *redis.Client, logger *zap.Logger) shared.Locker {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []Option{
		WithTTL(cfg.TTL),
		WithWait(cfg.Wait),
		WithRetryInterval(cfg.RetryInterval),
		WithLogger(logger),
	}
	if client == nil {
		logger.Warn("Redis not configured, using in-process source locks (single replica only)")
		return NewLocalLocker(opts...)
	}
	logger.Info("using Redis source locks")
	return NewRedisLocker(client, opts...)
}
