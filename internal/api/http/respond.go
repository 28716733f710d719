package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/logger"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// errBadRequest marks input that could not be decoded at all.
var errBadRequest = errors.New("bad request")

// statusFor maps a service error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, "CONCURRENCY_CONFLICT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	body := errorBody{
		Code:      code,
		Message:   err.Error(),
		RequestID: w.Header().Get(requestIDHeader),
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
		body.Message = verr.Reason
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", "error", err)
		body.Message = "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
