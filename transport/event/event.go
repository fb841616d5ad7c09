package event

import (
	"context"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/kafka"
	auditService "washbay/internal/domains/audit/service"
)

// Event consumes the booking event stream and archives finished bookings.
type Event struct {
	Config   *config.Config
	Kafka    kafka.Client
	Archiver auditService.Archiver
}

func New(cfg *config.Config, client kafka.Client, archiver auditService.Archiver) *Event {
	return &Event{
		Config:   cfg,
		Kafka:    client,
		Archiver: archiver,
	}
}

// Serve blocks until ctx is cancelled.
func (e *Event) Serve(ctx context.Context) {
	if len(e.Config.Kafka.Brokers) == 0 {
		log.Warn().Msg("No kafka brokers configured, booking archiving is disabled.")

		return
	}

	log.Info().Str("topic", e.Config.Kafka.Topics.BookingEvents).Msg("Starting booking event consumer.")

	e.Kafka.Consume(ctx, e.Config.Kafka.ConsumerGroup, e.Config.Kafka.Topics.BookingEvents, e.Archiver.Handle)
}

func (e *Event) Close() {
	if err := e.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}
}
