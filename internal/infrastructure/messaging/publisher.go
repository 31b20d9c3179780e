package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/mt799-service/pkg/events"
	pkgkafka "github.com/bibbank/mt799-service/pkg/kafka"
)

// Kafka header names set on every published event.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

// producer is satisfied by *pkgkafka.Producer.
type producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements events.EntryPublisher using Kafka. Entries are keyed
// by aggregate ID so events of one record stay on one partition.
type Publisher struct {
	producer producer
	topic    string
	logger   *slog.Logger
}

// NewPublisher creates a new Kafka-based outbox entry publisher.
func NewPublisher(p producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, topic: topic, logger: logger}
}

// PublishEntries sends entries to the events topic in a single batch.
func (p *Publisher) PublishEntries(ctx context.Context, entries []events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing event",
			"topic", p.topic,
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"payload_size", len(e.Payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID.String()),
			Value: e.Payload,
			Headers: map[string]string{
				HeaderEventType:     e.EventType,
				HeaderEventID:       e.ID.String(),
				HeaderAggregateType: e.AggregateType,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
