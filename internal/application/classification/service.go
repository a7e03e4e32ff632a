// internal/application/classification/service.go
//
// Application service around the classification engine.
//
// Submit flow:
//   validate request -> resolve content (inline or object store) -> hash ->
//   cache lookup / classify (collapsed per hash) -> persist -> publish
//
// Every collaborator is an interface and may be nil; a nil collaborator turns
// its step into a no-op.  Get reads the cache first and falls back to the
// repository.

package classification

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Request is one classification submission.  Exactly one of Content and
// ObjectKey carries the document.
type Request struct {
	ID        string `json:"id,omitempty" validate:"omitempty,max=128"`
	Format    Format `json:"format" validate:"omitempty,oneof=text json"`
	Content   string `json:"content,omitempty" validate:"required_without=ObjectKey,excluded_with=ObjectKey"`
	ObjectKey string `json:"object_key,omitempty" validate:"omitempty,max=1024"`
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// ResultCache memoizes records by input hash and by id.
type ResultCache interface {
	GetOrCompute(ctx context.Context, inputHash string,
		compute func(ctx context.Context) (registry.ClassificationRecord, error),
	) (registry.ClassificationRecord, bool, error)
	LookupID(ctx context.Context, id string) (registry.ClassificationRecord, error)
}

// ResultRepository persists records.
type ResultRepository interface {
	Save(ctx context.Context, rec registry.ClassificationRecord) error
	FindByID(ctx context.Context, id string) (registry.ClassificationRecord, error)
}

// ResultPublisher announces a finished record.
type ResultPublisher interface {
	Publish(ctx context.Context, rec registry.ClassificationRecord) error
}

// DocumentSource fetches raw documents referenced by object key.
type DocumentSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

type ServiceOption func(*Service)

func WithResultCache(c ResultCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

func WithRepository(r ResultRepository) ServiceOption {
	return func(s *Service) { s.repo = r }
}

func WithPublisher(p ResultPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

func WithDocumentSource(src DocumentSource) ServiceOption {
	return func(s *Service) { s.source = src }
}

func WithServiceLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxContentBytes rejects larger documents.  Zero disables the limit.
func WithMaxContentBytes(n int64) ServiceOption {
	return func(s *Service) { s.maxContentBytes = n }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// Service orchestrates classification with caching, persistence and
// publication.  It is safe for concurrent use.
type Service struct {
	engine          *Engine
	cache           ResultCache
	repo            ResultRepository
	publisher       ResultPublisher
	source          DocumentSource
	logger          logging.Logger
	validate        *validator.Validate
	maxContentBytes int64
	now             func() time.Time
}

func NewService(engine *Engine, opts ...ServiceOption) *Service {
	s := &Service{
		engine:   engine,
		logger:   logging.NewNopLogger(),
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("classification-service")
	return s
}

// Engine exposes the underlying pure engine.
func (s *Service) Engine() *Engine { return s.engine }

// Submit classifies req and returns the stored record.  A document already
// seen (same format and bytes) is served from the cache with Cached set.
func (s *Service) Submit(ctx context.Context, req Request) (registry.ClassificationRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodeRequestInvalid, "invalid classification request").WithCause(err)
	}
	if req.Format == "" {
		req.Format = FormatText
	}

	content, err := s.resolveContent(ctx, req)
	if err != nil {
		return registry.ClassificationRecord{}, err
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodeInputEmpty, "document is empty")
	}
	if s.maxContentBytes > 0 && int64(len(content)) > s.maxContentBytes {
		return registry.ClassificationRecord{}, errors.Newf(errors.ErrCodeInputTooLarge,
			"document is %d bytes, limit %d", len(content), s.maxContentBytes)
	}
	if req.Format == FormatJSON && !json.Valid(content) {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodePayloadDecode, "structured payload is not valid JSON")
	}

	hash := InputHash(req.Format, content)
	log := logging.FromContext(ctx, s.logger).With(
		logging.String(logging.FieldInputHash, hash),
		logging.String("format", string(req.Format)),
	)

	compute := func(ctx context.Context) (registry.ClassificationRecord, error) {
		rec := registry.ClassificationRecord{
			ID:        uuid.NewString(),
			RequestID: req.ID,
			InputHash: hash,
			ObjectKey: req.ObjectKey,
			CreatedAt: s.now().UTC(),
			Result:    s.engine.ClassifyInput(Input{Format: req.Format, Content: content}),
		}
		if s.repo != nil {
			if err := s.repo.Save(ctx, rec); err != nil {
				return registry.ClassificationRecord{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "persist classification")
			}
		}
		return rec, nil
	}

	var rec registry.ClassificationRecord
	if s.cache != nil {
		rec, _, err = s.cache.GetOrCompute(ctx, hash, compute)
	} else {
		rec, err = compute(ctx)
	}
	if err != nil {
		log.Error("classification failed", logging.Err(err))
		return registry.ClassificationRecord{}, err
	}
	if req.ID != "" {
		rec.RequestID = req.ID
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rec); err != nil {
			log.Error("failed to publish classification", logging.Err(err), logging.String(logging.FieldResultID, rec.ID))
			return registry.ClassificationRecord{}, errors.Wrap(err, errors.ErrCodeMessagingError, "publish classification")
		}
	}

	log.Info("classification submitted",
		logging.String(logging.FieldResultID, rec.ID),
		logging.Bool("cached", rec.Cached),
		logging.String(logging.FieldConfidence, rec.Result.Confidence.String()),
	)
	return rec, nil
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, id string) (registry.ClassificationRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodeResultNotFound, "classification not found").WithDetail(id)
	}
	if s.cache != nil {
		if rec, err := s.cache.LookupID(ctx, id); err == nil {
			rec.Cached = true
			return rec, nil
		}
	}
	if s.repo == nil {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodeResultNotFound, "classification not found").WithDetail(id)
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return registry.ClassificationRecord{}, errors.New(errors.ErrCodeResultNotFound, "classification not found").WithDetail(id)
		}
		return registry.ClassificationRecord{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "load classification")
	}
	return rec, nil
}

func (s *Service) resolveContent(ctx context.Context, req Request) ([]byte, error) {
	if req.ObjectKey == "" {
		return []byte(req.Content), nil
	}
	if s.source == nil {
		return nil, errors.New(errors.ErrCodeSourceUnavailable, "no document source configured").WithDetail(req.ObjectKey)
	}
	data, err := s.source.Fetch(ctx, req.ObjectKey)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeSourceObjectMissing) || errors.IsCode(err, errors.ErrCodeInputTooLarge) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "fetch document")
	}
	return data, nil
}

// InputHash identifies a document by format and exact bytes.
func InputHash(format Format, content []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

//Personal.AI order the ending
