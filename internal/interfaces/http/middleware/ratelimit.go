package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/erp/proposals/internal/infrastructure/logger"
	"github.com/erp/proposals/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether one more request for key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (remaining int, allowed bool, err error)
	Limit() int
	Window() time.Duration
}

// RateLimiter is an in-memory fixed window limiter for single-instance deployments
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter. Stop releases its cleanup goroutine.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(window * 2)
	return rl
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow implements Limiter
func (rl *RateLimiter) Allow(_ context.Context, key string) (int, bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{tokens: rl.limit - 1, lastReset: now}
		return rl.limit - 1, true, nil
	}
	if c.tokens > 0 {
		c.tokens--
		return c.tokens, true, nil
	}
	return 0, false, nil
}

// Limit implements Limiter
func (rl *RateLimiter) Limit() int { return rl.limit }

// Window implements Limiter
func (rl *RateLimiter) Window() time.Duration { return rl.window }

// RedisRateLimiter counts requests per fixed window in Redis so every
// replica shares one budget per key.
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a Redis backed limiter
func NewRedisRateLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "proposals:ratelimit:",
	}
}

// Allow implements Limiter
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (int, bool, error) {
	bucket := time.Now().UnixNano() / int64(r.window)
	redisKey := r.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, r.window)
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	if count > r.limit {
		return 0, false, nil
	}
	return r.limit - count, true, nil
}

// Limit implements Limiter
func (r *RedisRateLimiter) Limit() int { return r.limit }

// Window implements Limiter
func (r *RedisRateLimiter) Window() time.Duration { return r.window }

// RateLimit limits requests per authenticated user, or per client IP for
// anonymous requests. Limiter errors let the request through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, log, defaultRateLimitKey)
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter Limiter, log *zap.Logger, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := keyFunc(c)
		remaining, allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.L(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			log.Debug("rate limit exceeded", zap.String("key", key))
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				logger.GetRequestID(c.Request.Context()),
			))
			return
		}
		c.Next()
	}
}

func defaultRateLimitKey(c *gin.Context) string {
	if userID := c.GetString(JWTUserIDKey); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
