package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records access tokens withdrawn before they expire, keyed by jti
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList keeps revoked token ids in Redis until the token would
// have expired anyway.
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list on client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client, keyPrefix: "proposals:revoked:"}
}

// Revoke implements RevocationList
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryRevocationList is a process-local RevocationList for single-instance
// deployments without Redis.
type MemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty in-memory list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke implements RevocationList
func (m *MemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked implements RevocationList. Expired entries are dropped on lookup.
func (m *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*MemoryRevocationList)(nil)
)
