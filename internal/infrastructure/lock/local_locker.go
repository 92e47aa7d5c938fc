package lock

import (
	"context"
	"sync"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"go.uber.org/zap"
)

// LocalLocker is an in-process keyed mutex.
// It only serializes callers inside one process; use RedisLocker when more
// than one replica runs.
type LocalLocker struct {
	mu     sync.Mutex
	slots  map[string]*slot
	wait   time.Duration
	logger *zap.Logger
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker(opts ...Option) *LocalLocker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &LocalLocker{
		slots:  make(map[string]*slot),
		wait:   o.wait,
		logger: o.logger,
	}
}

// Lock blocks until the key is free, the context ends or the wait elapses
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquireSlot(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.releaseSlot(key, s)
			})
		}, nil
	case <-waitCtx.Done():
		l.releaseSlot(key, s)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.logger.Warn("lock contention", zap.String("key", key), zap.Duration("wait", l.wait))
		return nil, shared.ErrLockNotAcquired
	}
}

func (l *LocalLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held returns the number of keys currently tracked
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Ensure LocalLocker implements shared.Locker
var _ shared.Locker = (*LocalLocker)(nil)
