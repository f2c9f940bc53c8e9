package domain

import "time"

// JobStatus tracks an evaluation job through its lifecycle.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobAnalyzing  JobStatus = "analyzing"
	JobEvaluating JobStatus = "evaluating"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// EvaluationJob records one run of the pipeline. Durability is an
// external-collaborator concern; the core only reads and writes jobs through
// an injected store.
type EvaluationJob struct {
	ID          string          `json:"id"`
	Status      JobStatus       `json:"status"`
	Message     string          `json:"message,omitempty"`
	Result      *ScoringSummary `json:"result,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	CompletedAt time.Time       `json:"completed_at,omitempty"`
}
