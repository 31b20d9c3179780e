package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/internal/domain/event"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

func fixedAssembler(at time.Time) *service.Assembler {
	return service.NewAssembler(
		service.WithClock(func() time.Time { return at }),
		service.WithIDGenerator(func() uuid.UUID { return testutil.TestRecordID1 }),
	)
}

func TestAssembler_AssembleParsed(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	parsed, err := swiftmt.Parse(testutil.SampleMT799())
	require.NoError(t, err)

	rec, err := fixedAssembler(at).AssembleParsed(parsed, valueobject.ChannelHTTP)
	require.NoError(t, err)

	assert.Equal(t, testutil.TestRecordID1, rec.ID())
	assert.Equal(t, at, rec.CreatedAt())
	assert.Equal(t, "F", rec.BasicHeader().MessageTypeCode)
	assert.Equal(t, "PRCBBGSFAXXX", rec.BasicHeader().SenderBIC)
	assert.Equal(t, "BANKBEBBAXXX", rec.ApplicationHeader().ReceiverBIC)
	assert.Equal(t, "REF1", rec.TransactionRef())
	assert.Equal(t, "REF2", rec.RelatedRef())
	assert.Equal(t, "Line one\nLine two", rec.MessageText())
	assert.Equal(t, "123456", rec.Checksum())
	assert.Equal(t, "ABCDEF", rec.DigitalSignature())
	assert.Equal(t, testutil.SampleTrailer, rec.Blocks().Trailer)
	assert.Len(t, rec.TextFields(), 3)

	require.Len(t, rec.DomainEvents(), 1)
	recorded, ok := rec.DomainEvents()[0].(event.MessageRecorded)
	require.True(t, ok)
	assert.Equal(t, event.EventTypeMessageRecorded, recorded.EventType())
	assert.Equal(t, rec.ID(), recorded.AggregateID())
	assert.Equal(t, "REF1", recorded.TransactionRef)
	assert.Equal(t, "HTTP", recorded.Channel)
}

func TestAssembler_MissingTagsAreEmpty(t *testing.T) {
	text := swiftmt.ParseTextBlock("{4:\n:79:only narrative\n-}")

	rec, err := service.NewAssembler().Assemble(swiftmt.BasicHeader{}, swiftmt.ApplicationHeader{}, text, swiftmt.Trailer{}, valueobject.ChannelKafka)
	require.NoError(t, err)

	assert.Empty(t, rec.TransactionRef())
	assert.Empty(t, rec.RelatedRef())
	assert.Equal(t, "only narrative", rec.MessageText())
	assert.NotEqual(t, uuid.Nil, rec.ID())
	assert.WithinDuration(t, time.Now(), rec.CreatedAt(), time.Minute)
}

func TestAssembler_Deterministic(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	a := fixedAssembler(at)

	p1, err := swiftmt.Parse(testutil.SampleMT799())
	require.NoError(t, err)
	p2, err := swiftmt.Parse(testutil.SampleMT799())
	require.NoError(t, err)

	r1, err := a.AssembleParsed(p1, valueobject.ChannelHTTP)
	require.NoError(t, err)
	r2, err := a.AssembleParsed(p2, valueobject.ChannelHTTP)
	require.NoError(t, err)

	assert.Equal(t, r1.ClearDomainEvents(), r2.ClearDomainEvents())
}

func TestAssembler_RequiresChannel(t *testing.T) {
	_, err := service.NewAssembler().Assemble(swiftmt.BasicHeader{}, swiftmt.ApplicationHeader{}, swiftmt.TextFields{}, swiftmt.Trailer{}, valueobject.Channel{})
	assert.Error(t, err)
}
