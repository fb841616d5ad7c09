package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"washbay/config"
	"washbay/infras/kafka"
	"washbay/infras/otel"
	"washbay/infras/s3"
	bookingModel "washbay/internal/domains/booking/model"
	notificationModel "washbay/internal/domains/notification/model"
	"washbay/shared/constant"
	"washbay/shared/failure"
)

const archiveMonthLayout = "2006/01"

// Archiver stores a JSON copy of every booking that reached a terminal status.
type Archiver interface {
	Archive(ctx context.Context, booking bookingModel.Booking) (url string, err error)
	// Handle consumes a booking event and archives the booking attached to terminal events.
	Handle(ctx context.Context, message kafkaGo.Message) error
}

type serviceImpl struct {
	storage s3.ObjectStore
	cfg     *config.Config
	otel    otel.Otel
}

func New(storage s3.ObjectStore, cfg *config.Config, otel otel.Otel) Archiver {
	return &serviceImpl{
		storage: storage,
		cfg:     cfg,
		otel:    otel,
	}
}

// ObjectKey is where a booking is archived, partitioned by scheduled month.
func ObjectKey(root string, booking bookingModel.Booking) string {
	return path.Join(root, booking.ScheduledAt.UTC().Format(archiveMonthLayout), booking.ID+".json")
}

func (s *serviceImpl) Archive(ctx context.Context, booking bookingModel.Booking) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Archive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !booking.Status.IsTerminal() {
		return constant.Empty, failure.InvalidState("booking %s is %s and cannot be archived yet", booking.ID, booking.Status) // nolint:wrapcheck
	}

	data, err := json.Marshal(booking)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to marshal booking: %w", err)
	}

	url, err = s.storage.Put(ctx, ObjectKey(s.cfg.External.S3.ArchiveDir, booking), constant.ContentTypeJSON, data)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to archive booking")

		return constant.Empty, fmt.Errorf("failed to archive booking: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) Handle(ctx context.Context, message kafkaGo.Message) error {
	if !notificationModel.Kind(kafka.Header(message, notificationModel.HeaderKind)).Terminal() {
		return nil
	}

	event, err := kafka.DecodeKafkaMessage[notificationModel.Event](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("skipping malformed booking event")

		return nil
	}

	if event.Booking == nil {
		return nil
	}

	if _, err = s.Archive(ctx, *event.Booking); err != nil {
		return err
	}

	log.Info().Str("booking_id", event.BookingID).Str("kind", string(event.Kind)).Msg("booking archived")

	return nil
}
