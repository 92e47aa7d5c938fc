package shared

import "context"

// Locker serializes work on a named key across goroutines and, depending on
// the implementation, across processes.
type Locker interface {
	// Lock blocks until the key is held, the context ends, or the wait
	// budget is spent (ErrLockNotAcquired). The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
