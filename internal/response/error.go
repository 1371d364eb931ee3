package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

// StatusClientClosedRequest is written when the caller went away before the
// handler finished.
const StatusClientClosedRequest = 499

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", body.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		exists     *errs.AlreadyExistsError
		validation *errs.ValidationError
		comparison *errs.ComparisonUnavailableError
		format     *errs.UpstreamFormatError
		external   *errs.ExternalServiceError
		database   *errs.DatabaseError
		encryption *errs.EncryptionError
	)

	switch {
	case errors.Is(err, context.Canceled):
		log.Info("request cancelled by client", "error", err)
		h.WriteError(w, r, StatusClientClosedRequest, "request_cancelled", "Request cancelled")

	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message, "field", validation.Field)
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_input",
			Message: validation.Message,
			Field:   validation.Field,
		})

	// checked before ExternalServiceError, which it usually wraps
	case errors.As(err, &comparison):
		log.Warn("comparison unavailable", "error", err)
		h.WriteError(w, r, http.StatusServiceUnavailable, "comparison_unavailable", comparison.Message)

	case errors.As(err, &format):
		log.Error("upstream returned malformed payload",
			"service", format.Service,
			"error", format.Message)
		h.WriteError(w, r, http.StatusBadGateway, "upstream_format",
			"Service temporarily unavailable")

	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"transient", external.Transient,
			"error", external.Message)

		status := http.StatusBadGateway
		if external.Transient {
			status = http.StatusServiceUnavailable
		}
		h.WriteError(w, r, status, "service_unavailable",
			"Service temporarily unavailable")

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", database.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.As(err, &encryption):
		log.Error("encryption error", "error", encryption.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
