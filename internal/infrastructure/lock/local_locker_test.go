package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker(WithWait(5 * time.Second))
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "proposal-source:rfp:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
	assert.Equal(t, 0, locker.held(), "slots are cleaned up")
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewLocalLocker(WithWait(50 * time.Millisecond))
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_WaitExpires(t *testing.T) {
	locker := NewLocalLocker(WithWait(20 * time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, shared.ErrLockNotAcquired)

	unlock()
	unlock() // second call is a no-op

	unlock2, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	unlock2()
	assert.Equal(t, 0, locker.held())
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker(WithWait(time.Second))

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
