package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// Assembler composes the outputs of the four block parsers into a
// MessageRecord. It performs no validation: callers must only hand it blocks
// that were all extracted successfully.
type Assembler struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// AssemblerOption customises an Assembler.
type AssemblerOption func(*Assembler)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator overrides the record ID source.
func WithIDGenerator(newID func() uuid.UUID) AssemblerOption {
	return func(a *Assembler) { a.newID = newID }
}

// NewAssembler creates an Assembler using the wall clock and random UUIDs.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble flattens the four field groups into a new record stamped with the
// current time.
func (a *Assembler) Assemble(
	basic swiftmt.BasicHeader,
	application swiftmt.ApplicationHeader,
	text swiftmt.TextFields,
	trailer swiftmt.Trailer,
	channel valueobject.Channel,
) (model.MessageRecord, error) {
	return model.NewMessageRecord(a.newID(), basic, application, text, trailer, swiftmt.BlockSet{}, channel, a.now())
}

// AssembleParsed is Assemble for a full pipeline result; the raw block spans
// are kept on the record.
func (a *Assembler) AssembleParsed(p swiftmt.Parsed, channel valueobject.Channel) (model.MessageRecord, error) {
	return model.NewMessageRecord(a.newID(), p.Basic, p.Application, p.Text, p.Trailer, p.Blocks, channel, a.now())
}
