package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/internal/domain/event"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/events"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// MessageRecord is the aggregate persisted for every accepted MT799 message:
// the flattened fields of all four blocks plus the text block projections.
type MessageRecord struct {
	id             uuid.UUID
	basic          swiftmt.BasicHeader
	application    swiftmt.ApplicationHeader
	textFields     []swiftmt.TextField
	transactionRef string
	relatedRef     string
	messageText    string
	trailer        swiftmt.Trailer
	blocks         swiftmt.BlockSet
	channel        valueobject.Channel
	createdAt      time.Time
	domainEvents   []events.DomainEvent
}

// NewMessageRecord builds a record from fully extracted blocks and records a
// MessageRecorded event. Absent text tags leave their projection empty.
func NewMessageRecord(
	id uuid.UUID,
	basic swiftmt.BasicHeader,
	application swiftmt.ApplicationHeader,
	text swiftmt.TextFields,
	trailer swiftmt.Trailer,
	blocks swiftmt.BlockSet,
	channel valueobject.Channel,
	createdAt time.Time,
) (MessageRecord, error) {
	if id == uuid.Nil {
		return MessageRecord{}, fmt.Errorf("record ID is required")
	}
	if channel.IsZero() {
		return MessageRecord{}, fmt.Errorf("ingestion channel is required")
	}

	r := MessageRecord{
		id:             id,
		basic:          basic,
		application:    application,
		textFields:     text.Fields(),
		transactionRef: text.Value(swiftmt.TagTransactionReference),
		relatedRef:     text.Value(swiftmt.TagRelatedReference),
		messageText:    text.Value(swiftmt.TagNarrative),
		trailer:        trailer,
		blocks:         blocks,
		channel:        channel,
		createdAt:      createdAt.UTC(),
	}

	r.domainEvents = append(r.domainEvents, event.NewMessageRecorded(
		id,
		application.MessageType,
		basic.SenderBIC,
		application.ReceiverBIC,
		r.transactionRef,
		r.relatedRef,
		channel.String(),
		r.createdAt,
	))
	return r, nil
}

// Restore recreates a stored record by extracting its fields again from the
// raw block spans, so the spans are the only header and text data a store
// has to keep byte for byte. No events are recorded.
func Restore(id uuid.UUID, blocks swiftmt.BlockSet, channel valueobject.Channel, createdAt time.Time) (MessageRecord, error) {
	parsed, err := swiftmt.Extract(blocks)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("record %s: %w", id, err)
	}

	return Reconstruct(
		id,
		parsed.Basic,
		parsed.Application,
		parsed.Text.Fields(),
		parsed.Text.Value(swiftmt.TagTransactionReference),
		parsed.Text.Value(swiftmt.TagRelatedReference),
		parsed.Text.Value(swiftmt.TagNarrative),
		parsed.Trailer,
		blocks,
		channel,
		createdAt.UTC(),
	), nil
}

// Reconstruct recreates a MessageRecord from persistence (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	basic swiftmt.BasicHeader,
	application swiftmt.ApplicationHeader,
	textFields []swiftmt.TextField,
	transactionRef, relatedRef, messageText string,
	trailer swiftmt.Trailer,
	blocks swiftmt.BlockSet,
	channel valueobject.Channel,
	createdAt time.Time,
) MessageRecord {
	return MessageRecord{
		id:             id,
		basic:          basic,
		application:    application,
		textFields:     textFields,
		transactionRef: transactionRef,
		relatedRef:     relatedRef,
		messageText:    messageText,
		trailer:        trailer,
		blocks:         blocks,
		channel:        channel,
		createdAt:      createdAt,
	}
}

func (r MessageRecord) ID() uuid.UUID { return r.id }
func (r MessageRecord) BasicHeader() swiftmt.BasicHeader { return r.basic }
func (r MessageRecord) ApplicationHeader() swiftmt.ApplicationHeader { return r.application }
func (r MessageRecord) TransactionRef() string { return r.transactionRef }
func (r MessageRecord) RelatedRef() string { return r.relatedRef }
func (r MessageRecord) MessageText() string { return r.messageText }
func (r MessageRecord) Checksum() string { return r.trailer.Checksum }
func (r MessageRecord) DigitalSignature() string { return r.trailer.DigitalSignature }
func (r MessageRecord) Trailer() swiftmt.Trailer { return r.trailer }
func (r MessageRecord) Blocks() swiftmt.BlockSet { return r.blocks }
func (r MessageRecord) Channel() valueobject.Channel { return r.channel }
func (r MessageRecord) CreatedAt() time.Time { return r.createdAt }

// TextFields returns a copy of the text block fields in block order.
func (r MessageRecord) TextFields() []swiftmt.TextField {
	out := make([]swiftmt.TextField, len(r.textFields))
	copy(out, r.textFields)
	return out
}

// DomainEvents returns the events recorded since construction.
func (r MessageRecord) DomainEvents() []events.DomainEvent {
	return r.domainEvents
}

// ClearDomainEvents returns a copy of the record without pending events.
func (r MessageRecord) ClearDomainEvents() MessageRecord {
	r.domainEvents = nil
	return r
}
