package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a domain event waiting in the outbox for delivery.
// Payload holds the Envelope encoding of the event.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxEntry encodes event for storage in the outbox.
func NewOutboxEntry(event DomainEvent) (OutboxEntry, error) {
	payload, err := Marshal(event)
	if err != nil {
		return OutboxEntry{}, err
	}
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewOutboxEntries encodes every event, stopping at the first failure.
func NewOutboxEntries(evts []DomainEvent) ([]OutboxEntry, error) {
	entries := make([]OutboxEntry, 0, len(evts))
	for _, e := range evts {
		entry, err := NewOutboxEntry(e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// OutboxRepository is the port the relay uses to drain the outbox. Entries
// are written by the aggregate repositories in the same transaction as the
// aggregate itself.
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, batchSize int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// EntryPublisher delivers stored outbox entries to a broker.
type EntryPublisher interface {
	PublishEntries(ctx context.Context, entries []OutboxEntry) error
}
