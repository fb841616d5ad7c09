package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	otelScopeName        = "lock"
	otelLockKeyAttribute = "lock.key"
)

var (
	// ErrNotObtained is returned by Acquire when another owner holds the key.
	ErrNotObtained = errors.New("lock not obtained")
	// ErrNotHeld is returned when the lock expired or belongs to someone else.
	ErrNotHeld = errors.New("lock not held")
)

// Lock is a held key. Token identifies the owner so only it can release or extend.
type Lock struct {
	Key   string
	Token string
}

// Locker makes a single attempt per call; retrying is left to the caller.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
	Release(ctx context.Context, lock Lock) error
	Extend(ctx context.Context, lock Lock, ttl time.Duration) error
}

type Option func(*options)

type options struct {
	token func() string
}

// WithTokenGenerator replaces the random owner token.
func WithTokenGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.token = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{token: uuid.NewString}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
