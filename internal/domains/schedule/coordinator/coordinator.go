// Package coordinator serialises work on resources through per-resource locks.
package coordinator

//go:generate go run go.uber.org/mock/mockgen -source=./coordinator.go -destination=../mocks/coordinator_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/otel"
	"washbay/shared/constant"
	"washbay/shared/failure"
	"washbay/shared/lock"
)

const (
	keyPrefix = "lock:resource:"

	defaultTTL   = 10 * time.Second
	defaultWait  = 3 * time.Second
	defaultRetry = 50 * time.Millisecond
)

type Coordinator interface {
	// WithLock runs fn while holding the locks of every resource in resourceIDs.
	// Locks are taken in sorted order and released when fn returns.
	WithLock(ctx context.Context, resourceIDs []string, fn func(ctx context.Context) error) error
}

type coordinatorImpl struct {
	locker lock.Locker
	otel   otel.Otel
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func New(locker lock.Locker, cfg *config.Config, otel otel.Otel) Coordinator {
	return &coordinatorImpl{
		locker: locker,
		otel:   otel,
		ttl:    millisOr(cfg.Lock.TTLMillis, defaultTTL),
		wait:   millisOr(cfg.Lock.WaitMillis, defaultWait),
		retry:  millisOr(cfg.Lock.RetryMillis, defaultRetry),
	}
}

// Key returns the lock key guarding a resource.
func Key(resourceID string) string {
	return keyPrefix + resourceID
}

// Keys returns the sorted, de-duplicated lock keys for resourceIDs.
func Keys(resourceIDs []string) []string {
	keys := make([]string, 0, len(resourceIDs))

	for _, id := range resourceIDs {
		if id != constant.Empty {
			keys = append(keys, Key(id))
		}
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}

// WithLock implements Coordinator.
func (c *coordinatorImpl) WithLock(ctx context.Context, resourceIDs []string, fn func(ctx context.Context) error) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".WithLock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	keys := Keys(resourceIDs)
	scope.SetAttribute("lock.keys", keys)

	held := make([]lock.Lock, 0, len(keys))

	defer func() {
		c.releaseAll(context.WithoutCancel(ctx), held)
	}()

	for _, key := range keys {
		l, err := c.acquire(ctx, key)
		if err != nil {
			return err
		}

		held = append(held, l)
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := c.keepAlive(workCtx, held, cancel)

	err = fn(workCtx)

	cancel()
	<-done

	return err
}

func (c *coordinatorImpl) acquire(ctx context.Context, key string) (lock.Lock, error) {
	deadline := time.Now().Add(c.wait)

	for {
		l, err := c.locker.Acquire(ctx, key, c.ttl)
		if err == nil {
			return l, nil
		}

		if !errors.Is(err, lock.ErrNotObtained) {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

			return lock.Lock{}, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if !time.Now().Before(deadline) {
			log.Warn().Str("key", key).Dur("wait", c.wait).Msg("lock wait exceeded")

			return lock.Lock{}, failure.LockTimeout(key) // nolint:wrapcheck
		}

		timer := time.NewTimer(c.retry)

		select {
		case <-ctx.Done():
			timer.Stop()

			return lock.Lock{}, ctx.Err() // nolint:wrapcheck
		case <-timer.C:
		}
	}
}

// keepAlive extends every held lock at half its TTL until ctx ends. onLost is called if any lock slips away.
func (c *coordinatorImpl) keepAlive(ctx context.Context, held []lock.Lock, onLost func()) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(c.ttl / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, l := range held {
					if err := c.locker.Extend(context.WithoutCancel(ctx), l, c.ttl); err != nil {
						log.Error().Err(err).Str("key", l.Key).Msg("failed to extend lock")
						onLost()

						return
					}
				}
			}
		}
	}()

	return done
}

func (c *coordinatorImpl) releaseAll(ctx context.Context, held []lock.Lock) {
	for i := len(held) - 1; i >= 0; i-- {
		if err := c.locker.Release(ctx, held[i]); err != nil {
			log.Warn().Err(err).Str("key", held[i].Key).Msg("failed to release lock")
		}
	}
}

func millisOr(millis int, fallback time.Duration) time.Duration {
	if millis <= 0 {
		return fallback
	}

	return time.Duration(millis) * time.Millisecond
}
