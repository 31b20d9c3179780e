package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/domain/port"
)

// ListMessages returns every stored record.
type ListMessages struct {
	repo port.MessageRecordRepository
}

func NewListMessages(repo port.MessageRecordRepository) *ListMessages {
	return &ListMessages{repo: repo}
}

// Execute returns ErrNotFound when the store is empty.
func (uc *ListMessages) Execute(ctx context.Context, _ dto.ListMessagesRequest) (dto.ListMessagesResponse, error) {
	records, err := uc.repo.ListAll(ctx)
	if err != nil {
		return dto.ListMessagesResponse{}, fmt.Errorf("failed to list message records: %w", err)
	}
	if len(records) == 0 {
		return dto.ListMessagesResponse{}, ErrNotFound
	}

	return dto.ListMessagesResponse{
		Messages:   toMessageRecordResponses(records),
		TotalCount: len(records),
	}, nil
}
