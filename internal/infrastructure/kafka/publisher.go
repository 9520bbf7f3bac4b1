package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
	pkgkafka "github.com/AliSleiman0/loan-default-predictor/pkg/kafka"
)

// Producer is the slice of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher using Kafka. Events are keyed by
// aggregate ID so events about one loan or training run share a partition.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
	topic    string
}

var _ port.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		eventType := evt.EventType()

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", evt.AggregateID()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":     eventType,
				"event_id":       evt.EventID().String(),
				"aggregate_type": evt.AggregateType(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
