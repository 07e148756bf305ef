package event

import (
	"context"
	"errors"
	"testing"

	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaForwarder_Handle(t *testing.T) {
	w := &fakeWriter{}
	f := NewKafkaForwarder(w, NewDomainSerializer(), zap.NewNop())
	evt := bookingEvent(housing.EventTypeBookingCompleted)

	require.NoError(t, f.Handle(context.Background(), evt))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, evt.AggregateID().String(), string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, housing.EventTypeBookingCompleted, string(msg.Headers[0].Value))

	decoded, err := NewDomainSerializer().Unmarshal(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID(), decoded.EventID())

	assert.Nil(t, f.EventTypes())
	require.NoError(t, f.Close())
	assert.True(t, w.closed)
}

func TestKafkaForwarder_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	f := NewKafkaForwarder(w, NewDomainSerializer(), nil)

	err := f.Handle(context.Background(), bookingEvent(housing.EventTypeBookingCompleted))

	assert.ErrorContains(t, err, "broker unavailable")
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "hostel.events"}, zap.NewNop())
	assert.Equal(t, "hostel.events", w.Topic)
	assert.True(t, w.Async)
	assert.True(t, w.AllowAutoTopicCreation)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
