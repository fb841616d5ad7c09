package lock

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// memoryLocker keeps locks in process. Used by tests and single-instance deployments.
type memoryLocker struct {
	mu    sync.Mutex
	held  map[string]entry
	opts  options
	clock func() time.Time
}

func NewMemoryLocker(opts ...Option) Locker {
	return &memoryLocker{
		held:  map[string]entry{},
		opts:  newOptions(opts),
		clock: time.Now,
	}
}

// Acquire implements Locker.
func (l *memoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	if err := ctx.Err(); err != nil {
		return Lock{}, err // nolint:wrapcheck
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()

	if current, ok := l.held[key]; ok && now.Before(current.expiresAt) {
		return Lock{}, ErrNotObtained
	}

	token := l.opts.token()
	l.held[key] = entry{token: token, expiresAt: now.Add(ttl)}

	return Lock{Key: key, Token: token}, nil
}

// Release implements Locker.
func (l *memoryLocker) Release(_ context.Context, lock Lock) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.held[lock.Key]
	if !ok || current.token != lock.Token {
		return ErrNotHeld
	}

	delete(l.held, lock.Key)

	if l.clock().After(current.expiresAt) {
		return ErrNotHeld
	}

	return nil
}

// Extend implements Locker.
func (l *memoryLocker) Extend(_ context.Context, lock Lock, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()

	current, ok := l.held[lock.Key]
	if !ok || current.token != lock.Token || now.After(current.expiresAt) {
		return ErrNotHeld
	}

	current.expiresAt = now.Add(ttl)
	l.held[lock.Key] = current

	return nil
}
