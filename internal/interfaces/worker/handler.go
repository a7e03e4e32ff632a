// Package worker adapts classification requests arriving on Kafka to the
// application service.
package worker

import (
	"context"
	"time"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const defaultHandlerTimeout = 30 * time.Second

// Submitter is the slice of the classification service the worker needs.
type Submitter interface {
	Submit(ctx context.Context, req classification.Request) (registry.ClassificationRecord, error)
}

// RequestHandler turns consumed messages into Submit calls.
type RequestHandler struct {
	svc     Submitter
	logger  logging.Logger
	timeout time.Duration
}

func NewRequestHandler(svc Submitter, logger logging.Logger, timeout time.Duration) *RequestHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &RequestHandler{svc: svc, logger: logger.Named("worker"), timeout: timeout}
}

// Handle decodes one request message and classifies it.  The result is
// published by the service itself.
func (h *RequestHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.DecodeEnvelope(msg)
	if err != nil {
		return err
	}
	var req classification.Request
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	if req.ID == "" {
		req.ID = string(msg.Key)
	}

	traceID := env.TraceID
	if traceID == "" {
		traceID = req.ID
	}
	ctx = logging.WithRequestID(ctx, traceID)
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rec, err := h.svc.Submit(ctx, req)
	if err != nil {
		return err
	}
	h.logger.Debug("request classified",
		logging.String(logging.FieldRequestID, traceID),
		logging.String(logging.FieldResultID, rec.ID),
		logging.Int64("offset", msg.Offset))
	return nil
}

// Retryable retries only failures that a later attempt could fix: server-side
// codes and errors that carry no code at all.
func Retryable(err error) bool {
	code := errors.GetCode(err)
	if code == errors.ErrCodeUnknown {
		return true
	}
	return errors.IsServerError(code)
}

//Personal.AI order the ending
