// Common helper functions for HTTP handlers.

package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeAppError renders err with the status of its code.  Every 5xx is
// logged.  Only 500 responses are masked: upstream failures (502, 503, 504)
// keep their AppError message, which never carries the wrapped cause.
func writeAppError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	resp := ErrorResponse{
		Code:      code.String(),
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		resp.Message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			logging.Err(err),
			logging.String("code", code.String()),
			logging.String(logging.FieldRequestID, resp.RequestID),
		)
	}
	if status == http.StatusInternalServerError {
		resp.Message = errors.DefaultMessageForCode(code)
	}
	writeJSON(w, status, resp)
}

//Personal.AI order the ending
