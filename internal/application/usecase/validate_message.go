package usecase

import (
	"context"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// ValidateMessage runs the parsing pipeline without storing the result.
type ValidateMessage struct {
	parser    *swiftmt.Parser
	assembler *service.Assembler
}

func NewValidateMessage(parser *swiftmt.Parser, assembler *service.Assembler) *ValidateMessage {
	return &ValidateMessage{parser: parser, assembler: assembler}
}

// Execute reports rejections in the response; only internal faults are
// returned as errors.
func (uc *ValidateMessage) Execute(_ context.Context, req dto.ValidateMessageRequest) (dto.ValidateMessageResponse, error) {
	if len(req.Content) == 0 {
		return invalid(ErrNoFile), nil
	}

	parsed, err := uc.parser.Parse(string(req.Content))
	if err != nil {
		return invalid(err), nil
	}

	channel := req.Channel
	if channel.IsZero() {
		channel = valueobject.ChannelHTTP
	}
	record, err := uc.assembler.AssembleParsed(parsed, channel)
	if err != nil {
		return dto.ValidateMessageResponse{}, err
	}

	fields := toMessageRecordResponse(record)
	return dto.ValidateMessageResponse{Valid: true, Fields: &fields}, nil
}

func invalid(err error) dto.ValidateMessageResponse {
	resp := dto.ValidateMessageResponse{Reason: RejectionMessage(err)}
	if block, ok := swiftmt.FailedBlock(err); ok {
		resp.Block = block.String()
	}
	return resp
}
