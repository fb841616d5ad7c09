package lock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"washbay/infras/otel"
	otelMocks "washbay/infras/otel/mocks"
	"washbay/shared/lock"
)

const key = "lock:resource:bay-1"

func newRedisLocker(t *testing.T) (lock.Locker, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	locker := lock.NewRedisLocker(client, otelMocks.NewOtel(), lock.WithTokenGenerator(func() string { return "token-1" }))

	return locker, mock
}

func TestRedisLocker_Acquire(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		want    lock.Lock
		wantErr error
	}{
		{
			name: "obtained",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(true)
			},
			want: lock.Lock{Key: key, Token: "token-1"},
		},
		{
			name: "held by someone else",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)
			},
			wantErr: lock.ErrNotObtained,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locker, mock := newRedisLocker(t)
			tt.setup(mock)

			got, err := locker.Acquire(context.Background(), key, 10*time.Second)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisLocker_AcquireRedisDown(t *testing.T) {
	locker, mock := newRedisLocker(t)
	mock.ExpectSetNX(key, "token-1", time.Second).SetErr(errors.New("connection refused"))

	_, err := locker.Acquire(context.Background(), key, time.Second)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, lock.ErrNotObtained)
}

func TestRedisLocker_Release(t *testing.T) {
	held := lock.Lock{Key: key, Token: "token-1"}

	t.Run("owner releases", func(t *testing.T) {
		locker, mock := newRedisLocker(t)
		mock.ExpectEval(lock.ReleaseScript, []string{key}, "token-1").SetVal(int64(1))

		assert.NoError(t, locker.Release(context.Background(), held))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired or stolen", func(t *testing.T) {
		locker, mock := newRedisLocker(t)
		mock.ExpectEval(lock.ReleaseScript, []string{key}, "token-1").SetVal(int64(0))

		assert.ErrorIs(t, locker.Release(context.Background(), held), lock.ErrNotHeld)
	})
}

func TestRedisLocker_Extend(t *testing.T) {
	held := lock.Lock{Key: key, Token: "token-1"}

	t.Run("owner extends", func(t *testing.T) {
		locker, mock := newRedisLocker(t)
		mock.ExpectEval(lock.ExtendScript, []string{key}, "token-1", int64(5000)).SetVal(int64(1))

		assert.NoError(t, locker.Extend(context.Background(), held, 5*time.Second))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost", func(t *testing.T) {
		locker, mock := newRedisLocker(t)
		mock.ExpectEval(lock.ExtendScript, []string{key}, "token-1", int64(5000)).SetVal(int64(0))

		assert.ErrorIs(t, locker.Extend(context.Background(), held, 5*time.Second), lock.ErrNotHeld)
	})
}

func TestRedisLocker_FailureIsRecordedOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client, mock := redismock.NewClientMock()
	locker := lock.NewRedisLocker(client, otel.FromProvider(provider), lock.WithTokenGenerator(func() string { return "token-1" }))

	mock.ExpectSetNX(key, "token-1", time.Second).SetErr(errors.New("connection refused"))

	_, err := locker.Acquire(context.Background(), key, time.Second)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Status().Description, "connection refused")
}
