package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"washbay/config"
	otelMocks "washbay/infras/otel/mocks"
	cacheMocks "washbay/shared/cache/mocks"
	"washbay/shared/constant"
	"washbay/transport/http/middleware"
)

func limitedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		remoteAddr    string
		wantKey       string
		count         int64
		err           error
		wantStatus    int
		wantRemaining string
	}{
		{
			name:          "within limit by forwarded address",
			headers:       map[string]string{constant.RequestHeaderForwardedFor: "10.0.0.1, 172.16.0.1"},
			wantKey:       "limiter:ip:10.0.0.1",
			count:         1,
			wantStatus:    http.StatusNoContent,
			wantRemaining: "1",
		},
		{
			name:          "actor takes precedence over address",
			headers:       map[string]string{constant.RequestHeaderActorID: "front-desk", constant.RequestHeaderRealIP: "10.0.0.2"},
			wantKey:       "limiter:actor:front-desk",
			count:         2,
			wantStatus:    http.StatusNoContent,
			wantRemaining: "0",
		},
		{
			name:          "over limit",
			remoteAddr:    "192.168.1.5:51234",
			wantKey:       "limiter:ip:192.168.1.5",
			count:         3,
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name:       "cache down fails open",
			remoteAddr: "192.168.1.5:51234",
			wantKey:    "limiter:ip:192.168.1.5",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)
			redisCache.EXPECT().Increment(gomock.Any(), tt.wantKey, 60).Return(tt.count, tt.err)

			mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limitedConfig(), redisCache)

			req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}

			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			mw.RateLimit()(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))

			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "60", rec.Header().Get(constant.ResponseHeaderRetryAfter))
			}
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl))

	rec := httptest.NewRecorder()
	mw.RateLimit()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resources", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestActor(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   any
	}{
		{name: "header present", header: "front-desk", want: "front-desk"},
		{name: "header absent", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl))

			var got any

			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.Context().Value(constant.ContextKeyActorID)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderActorID, tt.header)
			}

			mw.Actor(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
