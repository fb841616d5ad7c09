package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"washbay/config"
	"washbay/infras/kafka"
	kafkaMocks "washbay/infras/kafka/mocks"
	otelMocks "washbay/infras/otel/mocks"
	bookingModel "washbay/internal/domains/booking/model"
	"washbay/internal/domains/notification/model"
	"washbay/internal/domains/notification/service"
	scheduleModel "washbay/internal/domains/schedule/model"
)

var now = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func newNotifier(t *testing.T) (service.Notifier, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingEvents = "booking-events"

	return service.New(client, cfg, otelMocks.NewOtel()), client
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("events were not published")
	}
}

func TestNotifier_Notify(t *testing.T) {
	notifier, client := newNotifier(t)
	resourceID := "bay-1"
	booking := bookingModel.Booking{ID: "b-1", CustomerID: "c-1", Status: bookingModel.StatusConfirmed, ResourceID: &resourceID}

	old := scheduleModel.NewWindow(now, time.Hour, 15*time.Minute)
	moved := old.StartingAt(now.Add(90 * time.Minute))

	done := make(chan struct{})

	var sent []kafka.Message

	client.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			sent = messages
			close(done)

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	notifier.Notify(ctx,
		model.FromBooking(model.KindConfirmed, booking, "staff-1", now),
		model.FromBooking(model.KindScheduleChanged, booking, "staff-1", now).WithWindows(old, moved),
	)
	cancel()

	waitFor(t, done)

	require.Len(t, sent, 2)
	assert.Equal(t, "b-1", sent[0].Key)
	assert.Equal(t, string(model.KindConfirmed), sent[0].Headers[model.HeaderKind])

	changed, ok := sent[1].Value.(model.Event)
	require.True(t, ok)
	assert.Equal(t, "bay-1", changed.ResourceID)
	assert.True(t, changed.NewWindow.Start.Equal(now.Add(90*time.Minute)))
	assert.True(t, changed.OldWindow.Start.Equal(now))
}

func TestNotifier_NotifySwallowsErrors(t *testing.T) {
	notifier, client := newNotifier(t)
	done := make(chan struct{})

	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, ...kafka.Message) error {
			defer close(done)

			return errors.New("broker unavailable")
		})

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), model.Event{ID: "e-1", BookingID: "b-1"})
	})

	waitFor(t, done)
}

func TestNotifier_NotifyNothing(t *testing.T) {
	notifier, _ := newNotifier(t)

	notifier.Notify(context.Background())
}

func TestFromBooking(t *testing.T) {
	booking := bookingModel.Booking{ID: "b-1", CustomerID: "c-1", Status: bookingModel.StatusCancelled}

	cancelled := model.FromBooking(model.KindCancelled, booking, "c-1", now)
	require.NotNil(t, cancelled.Booking)
	assert.Equal(t, "b-1", cancelled.Booking.ID)
	assert.Empty(t, cancelled.ResourceID)
	assert.NotEmpty(t, cancelled.ID)

	confirmed := model.FromBooking(model.KindConfirmed, booking, "c-1", now)
	assert.Nil(t, confirmed.Booking)
	assert.NotEqual(t, cancelled.ID, confirmed.ID)

	assert.True(t, model.KindNoShow.Terminal())
	assert.False(t, model.KindRescheduled.Terminal())
}

func TestNotifier_Close(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr error
	}{
		{name: "waits for in-flight publish", timeout: time.Second},
		{name: "gives up when the deadline passes", timeout: 10 * time.Millisecond, wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier, client := newNotifier(t)
			started := make(chan struct{})
			release := make(chan struct{})

			var published bool

			client.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).
				DoAndReturn(func(context.Context, string, ...kafka.Message) error {
					close(started)
					<-release

					published = true

					return nil
				})

			notifier.Notify(context.Background(), model.Event{ID: "e-1", BookingID: "b-1"})
			waitFor(t, started)

			if tt.wantErr == nil {
				time.AfterFunc(20*time.Millisecond, func() { close(release) })
			}

			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			err := notifier.Close(ctx)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				close(release)

				return
			}

			require.NoError(t, err)
			assert.True(t, published)
		})
	}
}

func TestNotifier_NotifyAfterClose(t *testing.T) {
	notifier, _ := newNotifier(t)

	require.NoError(t, notifier.Close(context.Background()))

	notifier.Notify(context.Background(), model.Event{ID: "e-1", BookingID: "b-1"})
}
