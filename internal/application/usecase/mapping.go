package usecase

import (
	"github.com/samber/lo"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/domain/model"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

func toMessageRecordResponse(r model.MessageRecord) dto.MessageRecordResponse {
	basic := r.BasicHeader()
	app := r.ApplicationHeader()

	return dto.MessageRecordResponse{
		ID:                      r.ID(),
		Timestamp:               r.CreatedAt(),
		TypeOfMessage:           basic.MessageTypeCode,
		ServiceLevel:            basic.ServiceLevel,
		BIC:                     basic.SenderBIC,
		SessionNumber:           basic.SessionNumber,
		SequenceNumber:          basic.SequenceNumber,
		MessageDirection:        app.Direction,
		MessageType:             app.MessageType,
		ReceiverBIC:             app.ReceiverBIC,
		SenderBIC:               app.SenderBIC,
		AppHeaderSessionNumber:  app.SessionNumber,
		AppHeaderSequenceNumber: app.SequenceNumber,
		MessagePriority:         app.Priority,
		TransactionRef:          r.TransactionRef(),
		RelatedRef:              r.RelatedRef(),
		MessageText:             r.MessageText(),
		TextFields: lo.Map(r.TextFields(), func(f swiftmt.TextField, _ int) dto.TextFieldResponse {
			return dto.TextFieldResponse{Tag: f.Tag, Value: f.Value}
		}),
		Checksum:         r.Checksum(),
		DigitalSignature: r.DigitalSignature(),
		Channel:          r.Channel().String(),
	}
}

func toMessageRecordResponses(records []model.MessageRecord) []dto.MessageRecordResponse {
	return lo.Map(records, func(r model.MessageRecord, _ int) dto.MessageRecordResponse {
		return toMessageRecordResponse(r)
	})
}
