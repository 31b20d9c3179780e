package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mt799-service/internal/domain/valueobject"
)

// IngestMessageRequest carries one raw MT799 payload.
type IngestMessageRequest struct {
	Content []byte
	// Source names the payload for logging, e.g. the uploaded file name or
	// the Kafka topic/offset.
	Source  string
	Channel valueobject.Channel
}

// IngestMessageResponse is returned once the record has been stored.
type IngestMessageResponse struct {
	CreatedAt      time.Time `json:"created_at"`
	Message        string    `json:"message"`
	TransactionRef string    `json:"transaction_ref"`
	ID             uuid.UUID `json:"id"`
}

// ListMessagesRequest is the input DTO for listing stored records.
type ListMessagesRequest struct{}

// ListMessagesResponse lists stored records in insertion order.
type ListMessagesResponse struct {
	Messages   []MessageRecordResponse `json:"messages"`
	TotalCount int                     `json:"total_count"`
}

// TextFieldResponse is one text block tag and its value.
type TextFieldResponse struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// MessageRecordResponse is the flattened view of a stored record.
type MessageRecordResponse struct {
	Timestamp time.Time `json:"timestamp"`

	// Basic header.
	TypeOfMessage  string `json:"type_of_message"`
	ServiceLevel   string `json:"service_level"`
	BIC            string `json:"bic"`
	SessionNumber  string `json:"session_number"`
	SequenceNumber string `json:"sequence_number"`

	// Application header.
	MessageDirection        string `json:"message_direction"`
	MessageType             string `json:"message_type"`
	ReceiverBIC             string `json:"receiver_bic"`
	SenderBIC               string `json:"sender_bic"`
	AppHeaderSessionNumber  string `json:"app_header_session_number"`
	AppHeaderSequenceNumber string `json:"app_header_sequence_number"`
	MessagePriority         string `json:"message_priority"`

	// Text block.
	TransactionRef string              `json:"transaction_ref"`
	RelatedRef     string              `json:"related_ref"`
	MessageText    string              `json:"message_text"`
	TextFields     []TextFieldResponse `json:"text_fields"`

	// Trailer.
	Checksum         string `json:"checksum"`
	DigitalSignature string `json:"digital_signature"`

	Channel string    `json:"channel"`
	ID      uuid.UUID `json:"id"`
}

// ValidateMessageRequest asks for a dry-run parse without storing anything.
type ValidateMessageRequest struct {
	Content []byte
	Channel valueobject.Channel
}

// ValidateMessageResponse reports the outcome of a dry-run parse. Block and
// Reason are set only when Valid is false.
type ValidateMessageResponse struct {
	Fields *MessageRecordResponse `json:"fields,omitempty"`
	Block  string                 `json:"block,omitempty"`
	Reason string                 `json:"reason,omitempty"`
	Valid  bool                   `json:"valid"`
}
