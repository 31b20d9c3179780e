package port

import (
	"context"
	"errors"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/pkg/events"
)

// ErrDuplicateRecord is returned by Save when the record ID already exists.
var ErrDuplicateRecord = errors.New("message record already exists")

// MessageRecordRepository persists accepted MT799 records. Save writes the
// record's pending domain events to the outbox atomically with the record.
type MessageRecordRepository interface {
	// Save stores a new record.
	Save(ctx context.Context, record model.MessageRecord) error
	// ListAll returns every stored record in insertion order.
	ListAll(ctx context.Context) ([]model.MessageRecord, error)
}

// OutboxStore is implemented by repositories that keep a transactional outbox.
type OutboxStore = events.OutboxRepository
