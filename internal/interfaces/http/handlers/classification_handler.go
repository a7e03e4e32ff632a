package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// Classifier is the application service behind the classification routes.
type Classifier interface {
	Submit(ctx context.Context, req classification.Request) (registry.ClassificationRecord, error)
	Get(ctx context.Context, id string) (registry.ClassificationRecord, error)
}

// ClassificationHandler serves /api/v1/classifications.
type ClassificationHandler struct {
	svc         Classifier
	maxBodySize int64
	logger      logging.Logger
}

// NewClassificationHandler constructs the handler.  maxBodySize <= 0 leaves
// request bodies unbounded.
func NewClassificationHandler(svc Classifier, maxBodySize int64, logger logging.Logger) *ClassificationHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ClassificationHandler{svc: svc, maxBodySize: maxBodySize, logger: logger.Named("http")}
}

// Submit handles POST /api/v1/classifications.  A fresh classification
// answers 201 with a Location header; a cached one answers 200.
func (h *ClassificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req classification.Request
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeAppError(w, r, h.logger, errors.Newf(errors.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeRequestInvalid, "request body is not valid JSON").WithCause(err))
		return
	}

	rec, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	status := http.StatusCreated
	if rec.Cached {
		status = http.StatusOK
	} else {
		w.Header().Set("Location", "/api/v1/classifications/"+rec.ID)
	}
	writeJSON(w, status, rec)
}

// Get handles GET /api/v1/classifications/{id}.
func (h *ClassificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

//Personal.AI order the ending
