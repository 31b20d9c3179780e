package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/pkg/events"
)

// OutboxStore implements events.OutboxRepository on Badger. Entries live
// under "outbox:seq:{n}" until published, when they are deleted.
type OutboxStore struct {
	store *Store
}

// NewOutboxStore creates an OutboxStore over store.
func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

// putOutbox stages entries in txn.
func (s *Store) putOutbox(txn *badger.Txn, entries []events.OutboxEntry) error {
	for _, e := range entries {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal outbox entry: %w", err)
		}
		n, err := s.outboxSeq.Next()
		if err != nil {
			return fmt.Errorf("failed to allocate outbox sequence: %w", err)
		}
		key := seqKey(outboxPrefix, n)
		if err := txn.Set(key, value); err != nil {
			return err
		}
		if err := txn.Set([]byte(outboxIndexPrefix+e.ID.String()), key); err != nil {
			return err
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize pending entries, oldest first.
func (o *OutboxStore) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	var entries []events.OutboxEntry
	err := o.store.db.View(func(txn *badger.Txn) error {
		prefix := []byte(outboxPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(entries) < batchSize; it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var e events.OutboxEntry
				if err := json.Unmarshal(value, &e); err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox entries: %w", err)
	}
	return entries, nil
}

// MarkPublished removes the given entries. Unknown IDs are ignored.
func (o *OutboxStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	err := o.store.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			indexKey := []byte(outboxIndexPrefix + id.String())
			item, err := txn.Get(indexKey)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			key, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete(indexKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark outbox entries published: %w", err)
	}
	return nil
}
