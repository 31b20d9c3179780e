package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/observability"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

func newIngest(repo *memoryRepository, metrics *recordingMetrics) *usecase.IngestMessage {
	return usecase.NewIngestMessage(swiftmt.DefaultParser, testAssembler(), repo, metrics, observability.NopLogger())
}

func TestIngestMessage_Execute(t *testing.T) {
	repo := &memoryRepository{}
	metrics := &recordingMetrics{}

	resp, err := newIngest(repo, metrics).Execute(context.Background(), dto.IngestMessageRequest{
		Content: []byte(testutil.SampleMT799()),
		Source:  "sample.txt",
		Channel: valueobject.ChannelHTTP,
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.TestRecordID1, resp.ID)
	assert.Equal(t, "REF1", resp.TransactionRef)
	assert.Equal(t, fixedTime, resp.CreatedAt)
	assert.Equal(t, "Message saved successfully.", resp.Message)

	require.Len(t, repo.records, 1)
	stored := repo.records[0]
	assert.Equal(t, "REF2", stored.RelatedRef())
	assert.Equal(t, "Line one\nLine two", stored.MessageText())
	assert.Len(t, stored.DomainEvents(), 1)
	assert.Equal(t, []string{"HTTP"}, metrics.accepted)
}

func TestIngestMessage_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantBlock string
		wantMsg   string
	}{
		{
			name:      "empty upload",
			content:   "",
			wantErr:   usecase.ErrNoFile,
			wantBlock: "none",
			wantMsg:   "No file uploaded.",
		},
		{
			name:      "not an envelope",
			content:   ":20:REF1\n:79:hello",
			wantErr:   swiftmt.ErrStructural,
			wantBlock: "Basic Header Block",
			wantMsg:   "Invalid SWIFT MT799 message format.",
		},
		{
			name:      "unclosed trailer",
			content:   testutil.SampleBasicHeader + testutil.SampleApplicationHeader + testutil.SampleTextBlock + "{5:{MAC:A}",
			wantErr:   swiftmt.ErrUnterminatedSubfield,
			wantBlock: "Trailer Block",
			wantMsg:   "Trailer Block: unterminated sub-field {MAC:.",
		},
		{
			name:      "unclosed basic header",
			content:   "{1:F01PRCBBGSFAXXX1111111111" + testutil.SampleApplicationHeader + testutil.SampleTextBlock + testutil.SampleTrailer,
			wantErr:   swiftmt.ErrBlockMissing,
			wantBlock: "Basic Header Block",
			wantMsg:   "Basic Header Block is missing or invalid.",
		},
		{
			name:      "short application header",
			content:   testutil.SampleBasicHeader + "{2:I799BANK}" + testutil.SampleTextBlock + testutil.SampleTrailer,
			wantErr:   swiftmt.ErrInsufficientLength,
			wantBlock: "Application Header Block",
			wantMsg:   "Application Header Block: insufficient length: need 38 characters, got 8.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepository{}
			metrics := &recordingMetrics{}

			_, err := newIngest(repo, metrics).Execute(context.Background(), dto.IngestMessageRequest{
				Content: []byte(tt.content),
				Channel: valueobject.ChannelHTTP,
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, usecase.IsRejection(err))
			assert.Equal(t, tt.wantMsg, usecase.RejectionMessage(err))
			assert.Empty(t, repo.records)
			assert.Equal(t, []string{tt.wantBlock}, metrics.rejected)
		})
	}
}

func TestIngestMessage_StoreFailureIsInternal(t *testing.T) {
	repo := &memoryRepository{saveErr: errors.New("disk full")}

	_, err := newIngest(repo, &recordingMetrics{}).Execute(context.Background(), dto.IngestMessageRequest{
		Content: []byte(testutil.SampleMT799()),
		Channel: valueobject.ChannelKafka,
	})

	require.Error(t, err)
	assert.False(t, usecase.IsRejection(err))
	assert.Empty(t, usecase.RejectionMessage(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestIngestMessage_NilMetrics(t *testing.T) {
	uc := usecase.NewIngestMessage(swiftmt.DefaultParser, testAssembler(), &memoryRepository{}, nil, observability.NopLogger())

	_, err := uc.Execute(context.Background(), dto.IngestMessageRequest{
		Content: []byte(testutil.SampleMT799()),
		Channel: valueobject.ChannelGRPC,
	})
	assert.NoError(t, err)
}
