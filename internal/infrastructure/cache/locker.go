package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/fieldsales/erp/internal/domain/shared"
)

const lockKeyPrefix = "lock:"

// RedisLocker obtains distributed locks through redislock
type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	retries int
}

// NewRedisLocker creates a locker that holds keys for ttl and retries
// contended keys with linear backoff
func NewRedisLocker(client *redislock.Client, ttl time.Duration, retries int) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, retries: retries}
}

// Obtain acquires the key or returns shared.ErrConcurrencyConflict
func (l *RedisLocker) Obtain(ctx context.Context, key string) (shared.Lock, error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), l.retries),
	}
	lock, err := l.client.Obtain(ctx, lockKeyPrefix+key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.NewDomainError(shared.CodeConcurrencyConflict, "Another submission is in progress for this agent and day")
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// InMemoryLocker is a process-local locker
type InMemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewInMemoryLocker creates an in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{held: make(map[string]struct{})}
}

// Obtain acquires the key or fails immediately when it is held
func (l *InMemoryLocker) Obtain(_ context.Context, key string) (shared.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, shared.NewDomainError(shared.CodeConcurrencyConflict, "Another submission is in progress for this agent and day")
	}
	l.held[key] = struct{}{}
	return &memoryLock{locker: l, key: key}, nil
}

type memoryLock struct {
	locker *InMemoryLocker
	key    string
	once   sync.Once
}

func (m *memoryLock) Release(_ context.Context) error {
	m.once.Do(func() {
		m.locker.mu.Lock()
		delete(m.locker.held, m.key)
		m.locker.mu.Unlock()
	})
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*InMemoryLocker)(nil)
)
