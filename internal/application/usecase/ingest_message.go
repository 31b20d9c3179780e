package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/domain/port"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

const savedMessage = "Message saved successfully."

// IngestMessage parses one raw MT799 payload and stores the resulting record.
// Nothing is stored unless all four blocks parse.
type IngestMessage struct {
	parser    *swiftmt.Parser
	assembler *service.Assembler
	repo      port.MessageRecordRepository
	metrics   Metrics
	logger    *slog.Logger
}

// NewIngestMessage wires the use case. A nil metrics disables recording.
func NewIngestMessage(
	parser *swiftmt.Parser,
	assembler *service.Assembler,
	repo port.MessageRecordRepository,
	metrics Metrics,
	logger *slog.Logger,
) *IngestMessage {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &IngestMessage{
		parser:    parser,
		assembler: assembler,
		repo:      repo,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *IngestMessage) Execute(ctx context.Context, req dto.IngestMessageRequest) (dto.IngestMessageResponse, error) {
	channel := req.Channel.String()

	if len(req.Content) == 0 {
		uc.reject(ctx, req, ErrNoFile)
		return dto.IngestMessageResponse{}, ErrNoFile
	}

	parsed, err := uc.parser.Parse(string(req.Content))
	if err != nil {
		uc.reject(ctx, req, err)
		return dto.IngestMessageResponse{}, err
	}

	record, err := uc.assembler.AssembleParsed(parsed, req.Channel)
	if err != nil {
		return dto.IngestMessageResponse{}, fmt.Errorf("failed to assemble message record: %w", err)
	}

	if err := uc.repo.Save(ctx, record); err != nil {
		uc.logger.Error("failed to store message record", "record_id", record.ID(), "channel", channel, "error", err)
		return dto.IngestMessageResponse{}, fmt.Errorf("failed to save message record: %w", err)
	}

	uc.metrics.MessageAccepted(ctx, channel)
	uc.logger.Info("message recorded",
		"record_id", record.ID(),
		"transaction_ref", record.TransactionRef(),
		"sender_bic", record.BasicHeader().SenderBIC,
		"channel", channel,
		"source", req.Source,
	)

	return dto.IngestMessageResponse{
		ID:             record.ID(),
		TransactionRef: record.TransactionRef(),
		CreatedAt:      record.CreatedAt(),
		Message:        savedMessage,
	}, nil
}

func (uc *IngestMessage) reject(ctx context.Context, req dto.IngestMessageRequest, err error) {
	block := rejectedBlock(err)
	uc.metrics.MessageRejected(ctx, req.Channel.String(), block)
	uc.logger.Warn("message rejected",
		"block", block,
		"channel", req.Channel.String(),
		"source", req.Source,
		"error", err,
	)
}
