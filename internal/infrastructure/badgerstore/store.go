// Package badgerstore is an embedded MessageRecordRepository and outbox backed by
// BadgerDB, used when no PostgreSQL server is configured.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const sequenceBandwidth = 100

// Key layout.
const (
	recordPrefix      = "rec:seq:"
	recordIndexPrefix = "rec:id:"
	outboxPrefix      = "outbox:seq:"
	outboxIndexPrefix = "outbox:id:"
	recordSeqKey      = "seq:records"
	outboxSeqKey      = "seq:outbox"
)

// Store owns the Badger database and the sequences that order its keys.
type Store struct {
	db        *badger.DB
	recordSeq *badger.Sequence
	outboxSeq *badger.Sequence
}

// Open opens (or creates) a database at path. An empty path opens an
// in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(slogAdapter{logger: logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", path, err)
	}

	recordSeq, err := db.GetSequence([]byte(recordSeqKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badger: record sequence: %w", err)
	}
	outboxSeq, err := db.GetSequence([]byte(outboxSeqKey), sequenceBandwidth)
	if err != nil {
		recordSeq.Release()
		db.Close()
		return nil, fmt.Errorf("badger: outbox sequence: %w", err)
	}

	return &Store{db: db, recordSeq: recordSeq, outboxSeq: outboxSeq}, nil
}

// Close releases the sequence leases and closes the database.
func (s *Store) Close() error {
	err := errors.Join(s.recordSeq.Release(), s.outboxSeq.Release(), s.db.Close())
	if err != nil {
		return fmt.Errorf("badger: close: %w", err)
	}
	return nil
}

// Ping reports whether the database is still open.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger: database is closed")
	}
	return nil
}

func seqKey(prefix string, n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, n))
}

// slogAdapter routes Badger's internal logging through slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) { a.log(slog.LevelError, format, args...) }
func (a slogAdapter) Warningf(format string, args ...any) { a.log(slog.LevelWarn, format, args...) }
func (a slogAdapter) Infof(format string, args ...any) { a.log(slog.LevelDebug, format, args...) }
func (a slogAdapter) Debugf(format string, args ...any) { a.log(slog.LevelDebug, format, args...) }

func (a slogAdapter) log(level slog.Level, format string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
