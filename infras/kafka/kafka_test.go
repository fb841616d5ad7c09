package kafka_test

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washbay/infras/kafka"
)

type payload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{
		Key:     "b-1",
		Value:   payload{ID: "b-1", Count: 3},
		Headers: map[string]string{"kind": "booking.created"},
	}

	msg, err := message.ToKafkaMessage("booking-events")
	require.NoError(t, err)

	assert.Equal(t, "booking-events", msg.Topic)
	assert.Equal(t, []byte("b-1"), msg.Key)
	assert.Equal(t, "booking.created", kafka.Header(msg, "kind"))
	assert.Empty(t, kafka.Header(msg, "missing"))

	decoded, err := kafka.DecodeKafkaMessage[payload](msg)
	require.NoError(t, err)
	assert.Equal(t, payload{ID: "b-1", Count: 3}, decoded)
}

func TestMessage_Unmarshalable(t *testing.T) {
	message := kafka.Message{Key: "b-1", Value: make(chan int)}

	_, err := message.ToKafkaMessage("booking-events")

	assert.Error(t, err)
}

func TestDecodeKafkaMessage_Invalid(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage[payload](kafkaGo.Message{Value: []byte("{not json")})

	assert.Error(t, err)
}
