package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "washbay/infras/otel/mocks"
	"washbay/shared/cache"
)

type slotView struct {
	ResourceID string `json:"resource_id"`
	Minutes    int    `json:"minutes"`
}

func newCache(t *testing.T) (cache.RedisCache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return cache.NewRedisCache(client, otelMocks.NewOtel()), mock
}

func TestRedisCache_Save(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		stored  string
		setErr  error
		wantErr bool
	}{
		{name: "string stored raw", value: "bay-1", stored: "bay-1"},
		{name: "struct stored as json", value: slotView{ResourceID: "bay-1", Minutes: 45}, stored: `{"resource_id":"bay-1","minutes":45}`},
		{name: "redis failure", value: "bay-1", stored: "bay-1", setErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisCache, mock := newCache(t)

			expect := mock.ExpectSet("slot:bay-1", []byte(tt.stored), time.Minute)
			if tt.setErr != nil {
				expect.SetErr(tt.setErr)
			} else {
				expect.SetVal("OK")
			}

			err := redisCache.Save(context.Background(), "slot:bay-1", tt.value, 60)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRedisCache_Get(t *testing.T) {
	t.Run("decodes json", func(t *testing.T) {
		redisCache, mock := newCache(t)
		mock.ExpectGet("slot:bay-1").SetVal(`{"resource_id":"bay-1","minutes":45}`)

		var got slotView
		require.NoError(t, redisCache.Get(context.Background(), "slot:bay-1", &got))

		assert.Equal(t, slotView{ResourceID: "bay-1", Minutes: 45}, got)
	})

	t.Run("miss wraps cache.Nil", func(t *testing.T) {
		redisCache, mock := newCache(t)
		mock.ExpectGet("slot:bay-2").RedisNil()

		var got slotView
		err := redisCache.Get(context.Background(), "slot:bay-2", &got)

		assert.ErrorIs(t, err, cache.Nil)
	})

	t.Run("string target is filled raw", func(t *testing.T) {
		redisCache, mock := newCache(t)
		mock.ExpectGet("owner").SetVal("bay-1")

		var got string
		require.NoError(t, redisCache.Get(context.Background(), "owner", &got))

		assert.Equal(t, "bay-1", got)
	})
}

func TestRedisCache_Clear(t *testing.T) {
	redisCache, mock := newCache(t)

	mock.ExpectScan(0, "booking:gets*", 100).SetVal([]string{"booking:gets:p1", "booking:gets:p2"}, 7)
	mock.ExpectUnlink("booking:gets:p1", "booking:gets:p2").SetVal(2)
	mock.ExpectScan(7, "booking:gets*", 100).SetVal([]string{}, 0)

	assert.NoError(t, redisCache.Clear(context.Background(), "booking:gets*"))
}

func TestRedisCache_Increment(t *testing.T) {
	t.Run("returns the window count", func(t *testing.T) {
		redisCache, mock := newCache(t)
		mock.ExpectEval(cache.IncrementScript, []string{"limiter:10.0.0.1"}, 60).SetVal(int64(3))

		count, err := redisCache.Increment(context.Background(), "limiter:10.0.0.1", 60)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("redis failure", func(t *testing.T) {
		redisCache, mock := newCache(t)
		mock.ExpectEval(cache.IncrementScript, []string{"limiter:10.0.0.1"}, 60).SetErr(errors.New("connection refused"))

		_, err := redisCache.Increment(context.Background(), "limiter:10.0.0.1", 60)

		assert.Error(t, err)
	})
}
