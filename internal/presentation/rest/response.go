package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/mt799-service/internal/application/usecase"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error string `json:"error"`
	Block string `json:"block,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a use case error onto a status code: rejections are 400,
// an empty store is 404, everything else is logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No messages found."})
	case usecase.IsRejection(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: usecase.RejectionMessage(err),
			Block: usecase.RejectedBlock(err),
		})
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: internalErrorMessage})
	}
}
