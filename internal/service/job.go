package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"exam-eval/internal/domain"
	"exam-eval/internal/dto"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// JobService tracks pipeline runs through an injected job store. Each run is
// independent; the service itself holds no per-job state.
type JobService struct {
	pipeline *EvaluationPipeline
	store    port.JobStore
}

// NewJobService creates a new JobService.
func NewJobService(pipeline *EvaluationPipeline, store port.JobStore) *JobService {
	return &JobService{pipeline: pipeline, store: store}
}

// Run executes one evaluation job synchronously, recording status transitions
// in the store, and returns the shaped result.
func (s *JobService) Run(ctx context.Context, doc *domain.Document, answerKey *domain.Document) (*dto.TestEvaluationResult, error) {
	l := logger.Get()
	start := time.Now()

	job := &domain.EvaluationJob{
		ID:          newJobID(),
		Status:      domain.JobQueued,
		SubmittedAt: start,
	}
	if err := s.store.Put(ctx, job); err != nil {
		return nil, domain.NewInternalError("Failed to store job", err)
	}

	l.Info("Processing evaluation job", zap.String("job_id", job.ID))

	s.transition(ctx, job, domain.JobProcessing, "Document evaluation started")

	summary, err := s.pipeline.EvaluateWithProgress(ctx, doc, answerKey, func(status domain.JobStatus) {
		s.transition(ctx, job, status, stageMessage(status))
	})
	if err != nil {
		job.Status = domain.JobFailed
		job.Message = fmt.Sprintf("Evaluation failed for job %s: %v", job.ID, err)
		job.CompletedAt = time.Now()
		if storeErr := s.store.Update(ctx, job); storeErr != nil {
			l.Error("Failed to record job failure",
				zap.String("job_id", job.ID),
				zap.Error(storeErr))
		}
		l.Error("Evaluation job failed", zap.String("job_id", job.ID), zap.Error(err))
		return nil, err
	}

	job.Status = domain.JobCompleted
	job.Message = "Evaluation completed successfully"
	job.Result = summary
	job.CompletedAt = time.Now()
	if err := s.store.Update(ctx, job); err != nil {
		l.Error("Failed to record job completion",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	result := dto.NewTestEvaluationResult(job.ID, summary, time.Since(start))
	l.Info("Completed evaluation job",
		zap.String("job_id", job.ID),
		zap.Float64("processing_time", result.ProcessingTime))
	return result, nil
}

// Status returns the stored state of a job.
func (s *JobService) Status(ctx context.Context, jobID string) (*domain.EvaluationJob, error) {
	return s.store.Get(ctx, jobID)
}

func (s *JobService) transition(ctx context.Context, job *domain.EvaluationJob, status domain.JobStatus, message string) {
	job.Status = status
	job.Message = message
	if err := s.store.Update(ctx, job); err != nil {
		logger.Get().Warn("Failed to record job transition",
			zap.String("job_id", job.ID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func stageMessage(status domain.JobStatus) string {
	switch status {
	case domain.JobAnalyzing:
		return "Classifying questions"
	case domain.JobEvaluating:
		return "Evaluating answers"
	default:
		return string(status)
	}
}

func newJobID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
