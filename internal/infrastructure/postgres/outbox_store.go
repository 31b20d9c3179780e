package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/pkg/events"
	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
)

// OutboxStore implements events.OutboxRepository over the outbox table.
type OutboxStore struct {
	db pgpkg.Querier
}

// NewOutboxStore creates an OutboxStore on a pool or an open transaction.
func NewOutboxStore(db pgpkg.Querier) *OutboxStore {
	return &OutboxStore{db: db}
}

// FetchUnpublished returns up to batchSize unpublished entries, oldest first.
func (s *OutboxStore) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	const query = `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox: %w", err)
	}
	return entries, nil
}

// MarkPublished stamps the given entries as published.
func (s *OutboxStore) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `UPDATE outbox SET published_at = NOW() WHERE id = ANY($1)`
	if _, err := s.db.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark outbox entries published: %w", err)
	}
	return nil
}
