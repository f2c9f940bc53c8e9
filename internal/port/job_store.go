package port

import (
	"context"

	"exam-eval/internal/domain"
)

// JobStore persists evaluation jobs by id. Implementations decide
// durability; the in-memory store is volatile by design.
type JobStore interface {
	Put(ctx context.Context, job *domain.EvaluationJob) error
	Get(ctx context.Context, id string) (*domain.EvaluationJob, error)
	Update(ctx context.Context, job *domain.EvaluationJob) error
}
