package store

import (
	"context"
	"errors"
	"sync"

	"incident-intelligence-backend/internal/dto"
)

var ErrDiagnosisNotFound = errors.New("diagnosis not found")

// maxRetained bounds the in-memory history; oldest entries are evicted.
const maxRetained = 100

// DiagnosisStore keeps completed diagnoses for later retrieval.
type DiagnosisStore interface {
	Save(ctx context.Context, result *dto.DiagnosisResult) error
	Get(ctx context.Context, requestID string) (*dto.DiagnosisResult, error)
	Recent(ctx context.Context, limit int) ([]*dto.DiagnosisResult, error)
}

type inMemoryDiagnosisStore struct {
	mu    sync.RWMutex
	byID  map[string]*dto.DiagnosisResult
	order []string // request ids, oldest first
}

func NewInMemoryDiagnosisStore() DiagnosisStore {
	return &inMemoryDiagnosisStore{
		byID: make(map[string]*dto.DiagnosisResult),
	}
}

func (s *inMemoryDiagnosisStore) Save(ctx context.Context, result *dto.DiagnosisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[result.RequestID]; !exists {
		s.order = append(s.order, result.RequestID)
	}
	s.byID[result.RequestID] = result

	for len(s.order) > maxRetained {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *inMemoryDiagnosisStore) Get(ctx context.Context, requestID string) (*dto.DiagnosisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.byID[requestID]
	if !ok {
		return nil, ErrDiagnosisNotFound
	}
	return result, nil
}

func (s *inMemoryDiagnosisStore) Recent(ctx context.Context, limit int) ([]*dto.DiagnosisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}

	results := make([]*dto.DiagnosisResult, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, s.byID[s.order[i]])
	}
	return results, nil
}
