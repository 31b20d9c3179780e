package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
)

// MessageHandler implements the gRPC message service handler.
type MessageHandler struct {
	UnimplementedMessageServiceServer

	ingest   *usecase.IngestMessage
	validate *usecase.ValidateMessage
	list     *usecase.ListMessages
	logger   *slog.Logger
}

// NewMessageHandler creates a new gRPC message handler.
func NewMessageHandler(
	ingest *usecase.IngestMessage,
	validate *usecase.ValidateMessage,
	list *usecase.ListMessages,
	logger *slog.Logger,
) *MessageHandler {
	return &MessageHandler{
		ingest:   ingest,
		validate: validate,
		list:     list,
		logger:   logger,
	}
}

// SubmitMessageRequest carries one raw MT799 message.
type SubmitMessageRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// SubmitMessageResponse represents the gRPC response for a stored message.
type SubmitMessageResponse struct {
	ID             string `json:"id"`
	TransactionRef string `json:"transaction_ref"`
	CreatedAt      string `json:"created_at"`
	Message        string `json:"message"`
}

// ValidateMessageRequest carries one raw MT799 message for a dry run.
type ValidateMessageRequest struct {
	Content string `json:"content"`
}

// ValidateMessageResponse reports the outcome of a dry run.
type ValidateMessageResponse = dto.ValidateMessageResponse

// ListMessagesRequest represents the gRPC request for listing messages.
type ListMessagesRequest struct{}

// ListMessagesResponse represents the gRPC response for listing messages.
type ListMessagesResponse = dto.ListMessagesResponse

// SubmitMessage parses and stores one message.
func (h *MessageHandler) SubmitMessage(ctx context.Context, req *SubmitMessageRequest) (*SubmitMessageResponse, error) {
	resp, err := h.ingest.Execute(ctx, dto.IngestMessageRequest{
		Content: []byte(req.Content),
		Source:  req.Source,
		Channel: valueobject.ChannelGRPC,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	return &SubmitMessageResponse{
		ID:             resp.ID.String(),
		TransactionRef: resp.TransactionRef,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339Nano),
		Message:        resp.Message,
	}, nil
}

// ValidateMessage parses one message without storing it.
func (h *MessageHandler) ValidateMessage(ctx context.Context, req *ValidateMessageRequest) (*ValidateMessageResponse, error) {
	resp, err := h.validate.Execute(ctx, dto.ValidateMessageRequest{
		Content: []byte(req.Content),
		Channel: valueobject.ChannelGRPC,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// ListMessages returns every stored message.
func (h *MessageHandler) ListMessages(ctx context.Context, _ *ListMessagesRequest) (*ListMessagesResponse, error) {
	resp, err := h.list.Execute(ctx, dto.ListMessagesRequest{})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// toStatus maps use case errors onto gRPC status codes.
func (h *MessageHandler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return status.Error(codes.NotFound, "No messages found.")
	case usecase.IsRejection(err):
		return status.Error(codes.InvalidArgument, usecase.RejectionMessage(err))
	default:
		h.logger.ErrorContext(ctx, "grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
