package usecase

import "context"

// Metrics receives ingestion outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	MessageAccepted(ctx context.Context, channel string)
	MessageRejected(ctx context.Context, channel, block string)
}

type nopMetrics struct{}

func (nopMetrics) MessageAccepted(context.Context, string)         {}
func (nopMetrics) MessageRejected(context.Context, string, string) {}
