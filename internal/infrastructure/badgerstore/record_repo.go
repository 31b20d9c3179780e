package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/port"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/events"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// MessageRecordRepository implements port.MessageRecordRepository on Badger.
//
// Records are stored under "rec:seq:{n}" so a prefix scan yields insertion
// order; "rec:id:{uuid}" points at the sequence key and guards against
// duplicate IDs.
type MessageRecordRepository struct {
	store *Store
}

// NewMessageRecordRepository creates a repository over store.
func NewMessageRecordRepository(store *Store) *MessageRecordRepository {
	return &MessageRecordRepository{store: store}
}

// Save stores the record and its pending domain events in one transaction.
func (r *MessageRecordRepository) Save(_ context.Context, record model.MessageRecord) error {
	value, err := json.Marshal(fromModel(record))
	if err != nil {
		return fmt.Errorf("failed to marshal message record: %w", err)
	}

	entries, err := events.NewOutboxEntries(record.DomainEvents())
	if err != nil {
		return fmt.Errorf("failed to encode domain events: %w", err)
	}

	n, err := r.store.recordSeq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate record sequence: %w", err)
	}

	indexKey := []byte(recordIndexPrefix + record.ID().String())
	key := seqKey(recordPrefix, n)

	err = r.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(indexKey); err == nil {
			return fmt.Errorf("%w: %s", port.ErrDuplicateRecord, record.ID())
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, value); err != nil {
			return err
		}
		if err := txn.Set(indexKey, key); err != nil {
			return err
		}
		return r.store.putOutbox(txn, entries)
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %s", port.ErrDuplicateRecord, record.ID())
	}
	if err != nil && !errors.Is(err, port.ErrDuplicateRecord) {
		return fmt.Errorf("failed to save message record: %w", err)
	}
	return err
}

// ListAll returns every stored record in insertion order.
func (r *MessageRecordRepository) ListAll(_ context.Context) ([]model.MessageRecord, error) {
	var disk []diskRecord
	err := r.store.db.View(func(txn *badger.Txn) error {
		prefix := []byte(recordPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var d diskRecord
				if err := json.Unmarshal(value, &d); err != nil {
					return err
				}
				disk = append(disk, d)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list message records: %w", err)
	}

	records := make([]model.MessageRecord, 0, len(disk))
	for _, d := range disk {
		record, err := d.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// diskRecord is the JSON value stored per record. Only the raw block spans
// are kept; they are []byte so JSON carries them as base64 and header bytes
// that are not valid UTF-8 survive the round trip. Fields are extracted
// again on load.
type diskRecord struct {
	ID                uuid.UUID `json:"id"`
	BasicHeader       []byte    `json:"basic_header"`
	ApplicationHeader []byte    `json:"application_header"`
	Text              []byte    `json:"text"`
	Trailer           []byte    `json:"trailer"`
	Channel           string    `json:"channel"`
	CreatedAt         time.Time `json:"created_at"`
}

func fromModel(r model.MessageRecord) diskRecord {
	blocks := r.Blocks()
	return diskRecord{
		ID:                r.ID(),
		BasicHeader:       []byte(blocks.BasicHeader),
		ApplicationHeader: []byte(blocks.ApplicationHeader),
		Text:              []byte(blocks.Text),
		Trailer:           []byte(blocks.Trailer),
		Channel:           r.Channel().String(),
		CreatedAt:         r.CreatedAt(),
	}
}

func (d diskRecord) toModel() (model.MessageRecord, error) {
	channel, err := valueobject.NewChannel(d.Channel)
	if err != nil {
		return model.MessageRecord{}, fmt.Errorf("record %s: %w", d.ID, err)
	}

	return model.Restore(d.ID, swiftmt.BlockSet{
		BasicHeader:       string(d.BasicHeader),
		ApplicationHeader: string(d.ApplicationHeader),
		Text:              string(d.Text),
		Trailer:           string(d.Trailer),
	}, channel, d.CreatedAt)
}
