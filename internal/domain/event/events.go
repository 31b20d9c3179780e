package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/pkg/events"
)

const (
	AggregateTypeMessageRecord = "MessageRecord"

	EventTypeMessageRecorded = "swift.message.recorded"
)

// MessageRecorded is emitted when an MT799 message has been parsed and stored.
type MessageRecorded struct {
	events.BaseEvent
	RecordID       uuid.UUID `json:"record_id"`
	MessageType    string    `json:"message_type"`
	SenderBIC      string    `json:"sender_bic"`
	ReceiverBIC    string    `json:"receiver_bic"`
	TransactionRef string    `json:"transaction_ref"`
	RelatedRef     string    `json:"related_ref"`
	Channel        string    `json:"channel"`
}

func NewMessageRecorded(recordID uuid.UUID, messageType, senderBIC, receiverBIC, transactionRef, relatedRef, channel string, at time.Time) MessageRecorded {
	e := MessageRecorded{
		RecordID:       recordID,
		MessageType:    messageType,
		SenderBIC:      senderBIC,
		ReceiverBIC:    receiverBIC,
		TransactionRef: transactionRef,
		RelatedRef:     relatedRef,
		Channel:        channel,
	}
	payload, _ := json.Marshal(struct {
		RecordID       uuid.UUID `json:"record_id"`
		MessageType    string    `json:"message_type"`
		SenderBIC      string    `json:"sender_bic"`
		ReceiverBIC    string    `json:"receiver_bic"`
		TransactionRef string    `json:"transaction_ref"`
		RelatedRef     string    `json:"related_ref"`
		Channel        string    `json:"channel"`
	}{recordID, messageType, senderBIC, receiverBIC, transactionRef, relatedRef, channel})

	e.BaseEvent = events.NewBaseEvent(EventTypeMessageRecorded, recordID, AggregateTypeMessageRecord, at, payload)
	return e
}
