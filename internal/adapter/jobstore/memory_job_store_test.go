package jobstore

import (
	"context"
	"testing"
	"time"

	"exam-eval/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJobStore(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &domain.EvaluationJob{
		ID:          "01JTESTJOB",
		Status:      domain.JobQueued,
		SubmittedAt: time.Now(),
	}

	require.NoError(t, store.Put(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, got.Status)

	job.Status = domain.JobCompleted
	require.NoError(t, store.Update(ctx, job))

	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
}

func TestMemoryJobStore_GetMissing(t *testing.T) {
	store := NewMemoryJobStore()

	_, err := store.Get(context.Background(), "no-such-job")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrJobNotFound, domainErr.Code)
}

func TestMemoryJobStore_StoresCopies(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &domain.EvaluationJob{ID: "01JTESTJOB", Status: domain.JobQueued}
	require.NoError(t, store.Put(ctx, job))

	// Mutating the caller's job must not leak into the stored state.
	job.Status = domain.JobFailed

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, got.Status)
}
