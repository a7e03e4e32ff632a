package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, req classification.Request) (registry.ClassificationRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(registry.ClassificationRecord), args.Error(1)
}

func envelopeMessage(t *testing.T, key string, req classification.Request, trace string) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.EventClassificationRequested, req)
	require.NoError(t, err)
	env.TraceID = trace
	pm, err := env.ToMessage("registry.classification.requests", []byte(key))
	require.NoError(t, err)
	return &kafka.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers}
}

func TestHandle_SubmitsEnvelopePayload(t *testing.T) {
	svc := new(mockSubmitter)
	req := classification.Request{ID: "r-1", Format: classification.FormatText, Content: "【 갑 구 】"}
	svc.On("Submit", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline && logging.RequestIDFrom(ctx) == "trace-1"
	}), req).Return(registry.ClassificationRecord{ID: "rec-1"}, nil).Once()

	h := NewRequestHandler(svc, nil, time.Second)
	require.NoError(t, h.Handle(context.Background(), envelopeMessage(t, "r-1", req, "trace-1")))
	svc.AssertExpectations(t)
}

func TestHandle_PlainPayloadUsesKeyAsID(t *testing.T) {
	svc := new(mockSubmitter)
	svc.On("Submit", mock.Anything, classification.Request{ID: "key-7", Content: "x"}).
		Return(registry.ClassificationRecord{ID: "rec"}, nil).Once()

	h := NewRequestHandler(svc, nil, 0)
	msg := &kafka.Message{Key: []byte("key-7"), Value: []byte(`{"content":"x"}`)}
	require.NoError(t, h.Handle(context.Background(), msg))
	svc.AssertExpectations(t)
}

func TestHandle_UndecodableMessage(t *testing.T) {
	svc := new(mockSubmitter)
	h := NewRequestHandler(svc, nil, 0)

	err := h.Handle(context.Background(), &kafka.Message{Value: []byte("garbage")})
	assert.True(t, errors.IsCode(err, errors.ErrCodePayloadDecode))
	assert.False(t, Retryable(err))
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestHandle_PropagatesServiceError(t *testing.T) {
	svc := new(mockSubmitter)
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(registry.ClassificationRecord{}, errors.New(errors.ErrCodeDatabaseError, "db down"))

	h := NewRequestHandler(svc, nil, 0)
	err := h.Handle(context.Background(), envelopeMessage(t, "k", classification.Request{Content: "x"}, ""))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.True(t, Retryable(err))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(fmt.Errorf("io timeout")))
	assert.True(t, Retryable(errors.New(errors.ErrCodeSourceUnavailable, "minio down")))
	assert.False(t, Retryable(errors.New(errors.ErrCodeRequestInvalid, "bad")))
	assert.False(t, Retryable(errors.New(errors.ErrCodeInputTooLarge, "big")))
	assert.False(t, Retryable(errors.New(errors.ErrCodeMessagePoisoned, "panic")))
}

//Personal.AI order the ending
