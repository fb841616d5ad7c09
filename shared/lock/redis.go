package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"washbay/infras/otel"
)

const (
	releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	extendScript  = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("pexpire", KEYS[1], ARGV[2]) else return 0 end`
)

type redisLocker struct {
	client *redis.Client
	otel   otel.Otel
	opts   options
}

func NewRedisLocker(client *redis.Client, ot otel.Otel, opts ...Option) Locker {
	return &redisLocker{
		client: client,
		otel:   ot,
		opts:   newOptions(opts),
	}
}

// Acquire implements Locker.
func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (lock Lock, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelLockKeyAttribute, key)

	token := l.opts.token()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("Locker", "Acquire").Msg("failed to set lock")

		return Lock{}, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !ok {
		return Lock{}, ErrNotObtained
	}

	return Lock{Key: key, Token: token}, nil
}

// Release implements Locker.
func (l *redisLocker) Release(ctx context.Context, lock Lock) (err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelLockKeyAttribute, lock.Key)

	n, err := l.client.Eval(ctx, releaseScript, []string{lock.Key}, lock.Token).Int64()
	if err != nil {
		log.Error().Err(err).Str("key", lock.Key).Str("Locker", "Release").Msg("failed to release lock")

		return fmt.Errorf("failed to release lock: %w", err)
	}

	if n == 0 {
		return ErrNotHeld
	}

	return nil
}

// Extend implements Locker.
func (l *redisLocker) Extend(ctx context.Context, lock Lock, ttl time.Duration) (err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Extend")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelLockKeyAttribute, lock.Key)

	n, err := l.client.Eval(ctx, extendScript, []string{lock.Key}, lock.Token, ttl.Milliseconds()).Int64()
	if err != nil {
		log.Error().Err(err).Str("key", lock.Key).Str("Locker", "Extend").Msg("failed to extend lock")

		return fmt.Errorf("failed to extend lock: %w", err)
	}

	if n == 0 {
		return ErrNotHeld
	}

	return nil
}
