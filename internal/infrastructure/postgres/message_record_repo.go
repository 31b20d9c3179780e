package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/port"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/events"
	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

const uniqueViolation = "23505"

// MessageRecordRepository implements port.MessageRecordRepository using PostgreSQL.
type MessageRecordRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRecordRepository creates a new PostgreSQL-backed MessageRecordRepository.
func NewMessageRecordRepository(pool *pgxpool.Pool) *MessageRecordRepository {
	return &MessageRecordRepository{pool: pool}
}

// Save inserts the record and writes its domain events to the outbox in the
// same transaction. Header and text values are written as BYTEA since the
// parser slices them at byte offsets and they need not be valid UTF-8.
func (r *MessageRecordRepository) Save(ctx context.Context, record model.MessageRecord) error {
	entries, err := events.NewOutboxEntries(record.DomainEvents())
	if err != nil {
		return fmt.Errorf("failed to encode domain events: %w", err)
	}

	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		const insertRecordSQL = `
			INSERT INTO message_records (
				id, type_of_message, service_level, bic, session_number, sequence_number,
				message_direction, message_type, receiver_bic, sender_bic,
				app_header_session_number, app_header_sequence_number, message_priority,
				transaction_ref, related_ref, message_text,
				checksum, digital_signature,
				raw_basic_header, raw_application_header, raw_text, raw_trailer,
				channel, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
			)
		`

		basic := record.BasicHeader()
		app := record.ApplicationHeader()
		blocks := record.Blocks()

		args := []any{record.ID()}
		for _, v := range []string{
			basic.MessageTypeCode,
			basic.ServiceLevel,
			basic.SenderBIC,
			basic.SessionNumber,
			basic.SequenceNumber,
			app.Direction,
			app.MessageType,
			app.ReceiverBIC,
			app.SenderBIC,
			app.SessionNumber,
			app.SequenceNumber,
			app.Priority,
			record.TransactionRef(),
			record.RelatedRef(),
			record.MessageText(),
			record.Checksum(),
			record.DigitalSignature(),
			blocks.BasicHeader,
			blocks.ApplicationHeader,
			blocks.Text,
			blocks.Trailer,
		} {
			args = append(args, []byte(v))
		}
		args = append(args, record.Channel().String(), record.CreatedAt())

		if _, err := tx.Exec(ctx, insertRecordSQL, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", port.ErrDuplicateRecord, record.ID())
			}
			return fmt.Errorf("failed to insert message record: %w", err)
		}

		return insertOutbox(ctx, tx, entries)
	})
}

// ListAll returns every stored record in insertion order. Fields are
// extracted again from the raw block spans.
func (r *MessageRecordRepository) ListAll(ctx context.Context) ([]model.MessageRecord, error) {
	const query = `
		SELECT id, raw_basic_header, raw_application_header, raw_text, raw_trailer, channel, created_at
		FROM message_records
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query message records: %w", err)
	}
	defer rows.Close()

	var records []model.MessageRecord
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("failed to scan message record: %w", err)
		}
		record, err := row.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message records: %w", err)
	}

	return records, nil
}

// recordRow holds the columns a record is restored from.
type recordRow struct {
	id                uuid.UUID
	basicHeader       []byte
	applicationHeader []byte
	text              []byte
	trailer           []byte
	channel           string
	createdAt         time.Time
}

func (row *recordRow) targets() []any {
	return []any{
		&row.id,
		&row.basicHeader,
		&row.applicationHeader,
		&row.text,
		&row.trailer,
		&row.channel,
		&row.createdAt,
	}
}

// toModel maps raw database values back into the MessageRecord aggregate.
func (row recordRow) toModel() (model.MessageRecord, error) {
	channel, err := valueobject.NewChannel(row.channel)
	if err != nil {
		return model.MessageRecord{}, fmt.Errorf("record %s: %w", row.id, err)
	}

	return model.Restore(row.id, swiftmt.BlockSet{
		BasicHeader:       string(row.basicHeader),
		ApplicationHeader: string(row.applicationHeader),
		Text:              string(row.text),
		Trailer:           string(row.trailer),
	}, channel, row.createdAt)
}

func insertOutbox(ctx context.Context, q pgpkg.Querier, entries []events.OutboxEntry) error {
	const insertOutboxSQL = `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, e := range entries {
		_, err := q.Exec(ctx, insertOutboxSQL,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.Payload, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert outbox event: %w", err)
		}
	}
	return nil
}
