package jobstore

import (
	"context"
	"sync"

	"exam-eval/internal/domain"
	"exam-eval/internal/port"
)

// MemoryJobStore is a volatile in-process job store. It satisfies the store
// capability for single-process runs; durability across restarts is out of
// scope here.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.EvaluationJob
}

// NewMemoryJobStore creates a new MemoryJobStore.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]domain.EvaluationJob)}
}

// Put implements port.JobStore.
func (s *MemoryJobStore) Put(ctx context.Context, job *domain.EvaluationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// Get implements port.JobStore.
func (s *MemoryJobStore) Get(ctx context.Context, id string) (*domain.EvaluationJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.NewJobNotFoundError(id)
	}
	return &job, nil
}

// Update implements port.JobStore.
func (s *MemoryJobStore) Update(ctx context.Context, job *domain.EvaluationJob) error {
	return s.Put(ctx, job)
}

var _ port.JobStore = (*MemoryJobStore)(nil)
