package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	pkgkafka "github.com/bibbank/mt799-service/pkg/kafka"
)

// Ingester is satisfied by *usecase.IngestMessage.
type Ingester interface {
	Execute(ctx context.Context, req dto.IngestMessageRequest) (dto.IngestMessageResponse, error)
}

// IngestHandler returns a Kafka handler that ingests each message value as
// one raw MT799 payload. Rejected payloads are logged and dropped; storage
// failures are returned so the consumer retries the message.
func IngestHandler(ingest Ingester, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		source := fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)

		resp, err := ingest.Execute(ctx, dto.IngestMessageRequest{
			Content: msg.Value,
			Source:  source,
			Channel: valueobject.ChannelKafka,
		})
		if err != nil {
			if usecase.IsRejection(err) {
				logger.WarnContext(ctx, "dropping rejected message",
					"source", source,
					"reason", usecase.RejectionMessage(err),
				)
				return nil
			}
			return fmt.Errorf("ingest %s: %w", source, err)
		}

		logger.DebugContext(ctx, "ingested message", "source", source, "record_id", resp.ID)
		return nil
	}
}
