package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/di"
	"washbay/helper"
	"washbay/shared/logger"
)

const (
	notifierDrainTimeout = 10 * time.Second
	tracerFlushTimeout   = 5 * time.Second
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeApp()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		app.Event.Serve(ctx)
	}()

	app.HTTP.Serve(ctx)

	wg.Wait()

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), notifierDrainTimeout)
	defer cancelDrain()

	if err := app.Notifier.Close(drainCtx); err != nil {
		log.Error().Err(err).Msg("Failed to publish pending booking events")
	}

	app.Event.Close()

	flushCtx, cancel := context.WithTimeout(context.Background(), tracerFlushTimeout)
	defer cancel()

	if err := app.Tracer.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Shutdown complete.")
}
