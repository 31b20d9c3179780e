// Package metrics records ingestion outcomes as OpenTelemetry counters.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bibbank/mt799-service"

// Recorder implements usecase.Metrics.
type Recorder struct {
	accepted metric.Int64Counter
	rejected metric.Int64Counter
}

// NewRecorder registers the ingestion counters with provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	accepted, err := meter.Int64Counter("swift_messages_accepted",
		metric.WithDescription("MT799 messages parsed and stored"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: accepted counter: %w", err)
	}

	rejected, err := meter.Int64Counter("swift_messages_rejected",
		metric.WithDescription("MT799 messages refused, by failing block"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: rejected counter: %w", err)
	}

	return &Recorder{accepted: accepted, rejected: rejected}, nil
}

func (r *Recorder) MessageAccepted(ctx context.Context, channel string) {
	r.accepted.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}

func (r *Recorder) MessageRejected(ctx context.Context, channel, block string) {
	r.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("block", block),
	))
}
