package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

// memoryRepository is an in-memory MessageRecordRepository.
type memoryRepository struct {
	mu      sync.Mutex
	records []model.MessageRecord
	saveErr error
	listErr error
}

func (r *memoryRepository) Save(_ context.Context, record model.MessageRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]model.MessageRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.MessageRecord(nil), r.records...), nil
}

type recordingMetrics struct {
	accepted []string
	rejected []string
}

func (m *recordingMetrics) MessageAccepted(_ context.Context, channel string) {
	m.accepted = append(m.accepted, channel)
}

func (m *recordingMetrics) MessageRejected(_ context.Context, _ string, block string) {
	m.rejected = append(m.rejected, block)
}

var fixedTime = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

func testAssembler() *service.Assembler {
	return service.NewAssembler(
		service.WithClock(func() time.Time { return fixedTime }),
		service.WithIDGenerator(func() uuid.UUID { return testutil.TestRecordID1 }),
	)
}
