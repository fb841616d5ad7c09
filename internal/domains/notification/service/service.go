package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/kafka"
	"washbay/infras/otel"
	"washbay/internal/domains/notification/model"
	"washbay/shared/constant"
)

// Notifier publishes booking events. Delivery is fire-and-forget: failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, events ...model.Event)
	// Close stops accepting events and waits for in-flight publishes until ctx ends.
	Close(ctx context.Context) error
}

type serviceImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel

	mu       sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &serviceImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (s *serviceImpl) Notify(ctx context.Context, events ...model.Event) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Warn().Int("count", len(events)).Msg("notifier closed, dropping booking events")

		return
	}

	s.inFlight.Add(1)

	go func() {
		defer s.inFlight.Done()

		c := context.WithoutCancel(ctx)

		if err := s.publish(c, events); err != nil {
			log.Error().Err(err).Int("count", len(events)).Msg("failed to publish booking events")
		}
	}()
}

func (s *serviceImpl) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	drained := make(chan struct{})

	go func() {
		s.inFlight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain booking events: %w", ctx.Err())
	}
}

func (s *serviceImpl) publish(ctx context.Context, events []model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{
			Key:     event.BookingID,
			Value:   event,
			Headers: map[string]string{model.HeaderKind: string(event.Kind)},
		}
	}

	return s.client.SendMessages(ctx, s.cfg.Kafka.Topics.BookingEvents, messages...) // nolint:wrapcheck
}
