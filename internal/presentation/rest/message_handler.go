package rest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/valueobject"
)

// uploadField is the multipart form field carrying the message file.
const uploadField = "file"

// MessageHandler serves the MT799 message endpoints.
type MessageHandler struct {
	ingest   *usecase.IngestMessage
	list     *usecase.ListMessages
	validate *usecase.ValidateMessage
	maxBytes int64
	logger   *slog.Logger
}

// NewMessageHandler creates a MessageHandler. Uploads larger than maxBytes
// are refused with 413.
func NewMessageHandler(
	ingest *usecase.IngestMessage,
	list *usecase.ListMessages,
	validate *usecase.ValidateMessage,
	maxBytes int64,
	logger *slog.Logger,
) *MessageHandler {
	return &MessageHandler{
		ingest:   ingest,
		list:     list,
		validate: validate,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload handles POST /api/v1/messages/upload.
func (h *MessageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	content, name, err := h.readUpload(w, r)
	if err != nil && !errors.Is(err, usecase.ErrNoFile) {
		h.writeUploadError(w, r, err)
		return
	}

	resp, err := h.ingest.Execute(r.Context(), dto.IngestMessageRequest{
		Content: content,
		Source:  name,
		Channel: valueobject.ChannelHTTP,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /api/v1/messages/validate: a dry run that never
// stores anything. Rejections are reported with 200 and "valid": false.
func (h *MessageHandler) Validate(w http.ResponseWriter, r *http.Request) {
	content, _, err := h.readUpload(w, r)
	if err != nil && !errors.Is(err, usecase.ErrNoFile) {
		h.writeUploadError(w, r, err)
		return
	}

	resp, err := h.validate.Execute(r.Context(), dto.ValidateMessageRequest{
		Content: content,
		Channel: valueobject.ChannelHTTP,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/v1/messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.list.Execute(r.Context(), dto.ListMessagesRequest{})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// readUpload returns the content of the "file" form field. A request
// without that field, or with an empty file, yields usecase.ErrNoFile and no
// content, which the use cases reject in turn.
func (h *MessageHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", usecase.ErrNoFile
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, header.Filename, err
	}
	if len(content) == 0 {
		return nil, header.Filename, usecase.ErrNoFile
	}

	h.logger.DebugContext(r.Context(), "upload received",
		"filename", header.Filename,
		"size", len(content),
		"content_type", mimetype.Detect(content).String(),
	)
	return content, header.Filename, nil
}

func (h *MessageHandler) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Uploaded file is too large."})
		return
	}
	writeError(w, r, h.logger, err)
}
