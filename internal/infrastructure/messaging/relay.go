package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"

	"github.com/bibbank/mt799-service/pkg/events"
)

// OutboxRelay drains the transactional outbox on a cron schedule. An entry
// is marked published only after the broker accepted its batch, so delivery
// is at least once.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	publisher events.EntryPublisher
	batchSize int
	logger    *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewOutboxRelay creates a relay that moves up to batchSize entries per run.
func NewOutboxRelay(outbox events.OutboxRepository, publisher events.EntryPublisher, batchSize int, logger *slog.Logger) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		logger:    logger,
	}
}

// RelayOnce publishes one batch and returns how many entries were relayed.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := r.publisher.PublishEntries(ctx, entries); err != nil {
		return 0, err
	}

	ids := lo.Map(entries, func(e events.OutboxEntry, _ int) uuid.UUID { return e.ID })
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to mark outbox entries published: %w", err)
	}
	return len(entries), nil
}

// Start schedules RelayOnce. Runs never overlap; a run still in progress
// when the next one is due causes that one to be skipped.
func (r *OutboxRelay) Start(ctx context.Context, schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return fmt.Errorf("outbox relay already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			return
		}
		if n > 0 {
			r.logger.InfoContext(ctx, "outbox relayed", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid outbox schedule %q: %w", schedule, err)
	}

	c.Start()
	r.cron = c
	r.logger.Info("outbox relay started", "schedule", schedule, "batch_size", r.batchSize)
	return nil
}

// Stop halts the schedule and waits for a running relay to finish.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	r.logger.Info("outbox relay stopped")
}
