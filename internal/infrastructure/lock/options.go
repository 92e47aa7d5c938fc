package lock

import (
	"time"

	"go.uber.org/zap"
)

// Default lock settings
const (
	DefaultTTL           = 2 * time.Minute
	DefaultWait          = 10 * time.Second
	DefaultRetryInterval = 100 * time.Millisecond
	DefaultKeyPrefix     = "proposals:lock:"
)

type options struct {
	keyPrefix string
	ttl       time.Duration
	wait      time.Duration
	retry     time.Duration
	logger    *zap.Logger
}

func defaultOptions() options {
	return options{
		keyPrefix: DefaultKeyPrefix,
		ttl:       DefaultTTL,
		wait:      DefaultWait,
		retry:     DefaultRetryInterval,
		logger:    zap.NewNop(),
	}
}

// Option configures a locker
type Option func(*options)

// WithTTL sets how long a Redis lock lives if never released
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithWait sets how long Lock waits before giving up
func WithWait(wait time.Duration) Option {
	return func(o *options) {
		if wait > 0 {
			o.wait = wait
		}
	}
}

// WithRetryInterval sets the Redis polling interval
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retry = d
		}
	}
}

// WithKeyPrefix sets the Redis key namespace
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
