package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/apimastery/appointments/libs/httpx"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
)

// statusFor maps an engine error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSlotTaken), errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrNotConfigured),
		errors.Is(err, model.ErrOutOfHours),
		errors.Is(err, model.ErrPolicyViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"err", err,
		)
		httpx.WriteError(w, status, "internal error")
		return
	}
	httpx.WriteError(w, status, err.Error())
}

// writeDecodeError reports a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, "invalid json body")
}
