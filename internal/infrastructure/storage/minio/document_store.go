package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const defaultContentType = "text/plain; charset=utf-8"

// DocumentStore reads and writes raw registry documents in one bucket.
type DocumentStore struct {
	api      ObjectAPI
	bucket   string
	maxBytes int64
	logger   logging.Logger
}

func NewDocumentStore(api ObjectAPI, cfg config.MinIOConfig, log logging.Logger) *DocumentStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	maxBytes := cfg.MaxObject
	if maxBytes <= 0 {
		maxBytes = config.DefaultMinIOMaxObject
	}
	return &DocumentStore{api: api, bucket: cfg.Bucket, maxBytes: maxBytes, logger: log.Named("document-store")}
}

// EnsureBucket creates the bucket when it does not exist.
func (s *DocumentStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "check bucket").WithDetail(s.bucket)
	}
	if exists {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "create bucket").WithDetail(s.bucket)
	}
	s.logger.Info("bucket created", logging.String("bucket", s.bucket))
	return nil
}

// Fetch returns the document stored under key.  Missing objects yield
// REG_006 and oversized ones REG_004.
func (s *DocumentStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	info, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	if info.Size > s.maxBytes {
		return nil, errors.Newf(errors.ErrCodeInputTooLarge, "object is %d bytes, limit %d", info.Size, s.maxBytes).WithDetail(key)
	}

	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, s.maxBytes+1))
	if err != nil {
		return nil, s.mapError(err, key)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errors.Newf(errors.ErrCodeInputTooLarge, "object exceeds %d bytes", s.maxBytes).WithDetail(key)
	}

	s.logger.Debug("document fetched", logging.String("key", key), logging.Int("bytes", len(data)))
	return data, nil
}

// Put stores data under key.
func (s *DocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New(errors.ErrCodeValidation, "object key required")
	}
	if int64(len(data)) > s.maxBytes {
		return errors.Newf(errors.ErrCodeInputTooLarge, "document is %d bytes, limit %d", len(data), s.maxBytes)
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "upload document").WithDetail(key)
	}
	return nil
}

func (s *DocumentStore) mapError(err error, key string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return errors.New(errors.ErrCodeSourceObjectMissing, "document not found").WithDetail(key)
	}
	return errors.Wrap(err, errors.ErrCodeSourceUnavailable, "read document").WithDetail(key)
}

//Personal.AI order the ending
