package redis

import (
	"context"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"washbay/config"
)

// New connects the client shared by the response cache, the rate limiter and the
// scheduling locks. Startup fails when Redis stays unreachable after the configured retries.
func New(config *config.Config) *goRedis.Client {
	cfg := config.Cache.Redis
	dialTimeout := time.Duration(cfg.DialTimeoutSeconds) * time.Second

	client := goRedis.NewClient(&goRedis.Options{
		Addr:        net.JoinHostPort(cfg.Primary.Host, cfg.Primary.Port),
		Password:    cfg.Primary.Password,
		DB:          cfg.Primary.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: dialTimeout,
	})

	logger := log.With().
		Str("host", cfg.Primary.Host).
		Str("port", cfg.Primary.Port).
		Int("db", cfg.Primary.DB).
		Logger()

	attempts := max(cfg.MaxRetry, 1)

	var err error

	for attempt := range attempts {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		err = client.Ping(ctx).Err()

		cancel()

		if err == nil {
			logger.Info().Msg("Connected to Redis")

			return client
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to Redis, retrying")

		time.Sleep(time.Duration(cfg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Err(err).Int("attempts", attempts).Msg("Giving up connecting to Redis")

	return nil
}
