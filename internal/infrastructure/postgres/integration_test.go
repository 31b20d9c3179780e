//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/port"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/internal/infrastructure/postgres"
	"github.com/bibbank/mt799-service/internal/infrastructure/postgres/migrations"
	"github.com/bibbank/mt799-service/pkg/events"
	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

func newRecord(t *testing.T, raw string, at time.Time) model.MessageRecord {
	t.Helper()

	parsed, err := swiftmt.Parse(raw)
	require.NoError(t, err)

	record, err := model.NewMessageRecord(
		testutil.TestRecordID1, parsed.Basic, parsed.Application, parsed.Text,
		parsed.Trailer, parsed.Blocks, valueobject.ChannelHTTP, at,
	)
	require.NoError(t, err)
	return record
}

func TestMessageRecordRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pg := testutil.NewPostgresContainer(ctx, t, migrations.FS)

	repo := postgres.NewMessageRecordRepository(pg.Pool)
	outbox := postgres.NewOutboxStore(pg.Pool)

	at := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	first := newRecord(t, testutil.SampleMT799(), at)

	t.Run("save and list", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, first))

		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, first.ID(), got.ID())
		assert.Equal(t, first.BasicHeader(), got.BasicHeader())
		assert.Equal(t, first.ApplicationHeader(), got.ApplicationHeader())
		assert.Equal(t, "REF1", got.TransactionRef())
		assert.Equal(t, "Line one\nLine two", got.MessageText())
		assert.Equal(t, first.TextFields(), got.TextFields())
		assert.Equal(t, first.Blocks(), got.Blocks())
		assert.True(t, at.Equal(got.CreatedAt()))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := repo.Save(ctx, first)
		assert.True(t, errors.Is(err, port.ErrDuplicateRecord))
	})

	t.Run("outbox holds the recorded event", func(t *testing.T) {
		entries, err := outbox.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, first.ID(), entries[0].AggregateID)

		env, err := events.Unmarshal(entries[0].Payload)
		require.NoError(t, err)
		assert.Equal(t, entries[0].EventType, env.EventType)

		require.NoError(t, outbox.MarkPublished(ctx, []uuid.UUID{entries[0].ID}))

		entries, err = outbox.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("migrations roll back and reapply", func(t *testing.T) {
		require.NoError(t, pgpkg.RunMigrationsDown(pg.DSN, migrations.FS))
		require.NoError(t, pgpkg.RunMigrations(pg.DSN, migrations.FS))

		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("header bytes split inside a character survive", func(t *testing.T) {
		raw := strings.Replace(testutil.SampleMT799(), "{1:F01PRCB", "{1:F0\u00e9RCB", 1)
		parsed, err := swiftmt.Parse(raw)
		require.NoError(t, err)

		record, err := model.NewMessageRecord(
			testutil.TestRecordID2, parsed.Basic, parsed.Application, parsed.Text,
			parsed.Trailer, parsed.Blocks, valueobject.ChannelHTTP, at,
		)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, record))

		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "0\xc3", records[0].BasicHeader().ServiceLevel)
		assert.Equal(t, record.BasicHeader(), records[0].BasicHeader())
		assert.Equal(t, record.Blocks(), records[0].Blocks())
	})
}
