package event

import (
	"context"
	"fmt"

	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the forwarder uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder copies every domain event to a Kafka topic. Messages are
// keyed by aggregate ID so events of one aggregate keep their order.
type KafkaForwarder struct {
	writer     MessageWriter
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewKafkaWriter builds an asynchronous writer from configuration. Delivery
// failures are reported through the logger.
func NewKafkaWriter(cfg config.KafkaConfig, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to deliver events to kafka",
					zap.String("topic", cfg.Topic),
					zap.Int("count", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
}

// NewKafkaForwarder creates a forwarder over writer
func NewKafkaForwarder(writer MessageWriter, serializer *EventSerializer, logger *zap.Logger) *KafkaForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaForwarder{writer: writer, serializer: serializer, logger: logger.Named("kafka")}
}

// EventTypes is empty: the forwarder subscribes to every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle encodes the event and hands it to the writer
func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := f.serializer.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "aggregate_type", Value: []byte(event.AggregateType())},
		},
		Time: event.OccurredAt(),
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to forward %s to kafka: %w", event.EventType(), err)
	}
	return nil
}

// Close flushes pending messages
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
