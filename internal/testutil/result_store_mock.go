package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

// MemoryResultStore is an in-memory result repository.
type MemoryResultStore struct {
	mu      sync.RWMutex
	records map[string]registry.ClassificationRecord
	saves   int
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{records: make(map[string]registry.ClassificationRecord)}
}

func (s *MemoryResultStore) Save(_ context.Context, rec registry.ClassificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return errors.Conflict("classification already stored").WithDetail(rec.ID)
	}
	s.records[rec.ID] = rec
	s.saves++
	return nil
}

func (s *MemoryResultStore) FindByID(_ context.Context, id string) (registry.ClassificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return registry.ClassificationRecord{}, errors.New(errors.ErrCodeResultNotFound, "classification not found").WithDetail(id)
	}
	return rec, nil
}

// Saves reports how many records were written.
func (s *MemoryResultStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// MockPublisher is a testify mock of the result publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, rec registry.ClassificationRecord) error {
	return m.Called(ctx, rec).Error(0)
}

// MockDocumentSource is a testify mock of the raw document source.
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

//Personal.AI order the ending
