package dto

import (
	"fmt"
	"time"

	"exam-eval/internal/domain"
)

// QuestionScore is the per-question line of an evaluation report.
type QuestionScore struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	QuestionType string  `json:"question_type"`
	MaxScore     float64 `json:"max_score"`
	AwardedScore float64 `json:"awarded_score"`
	Confidence   float64 `json:"confidence"`
	Feedback     string  `json:"feedback,omitempty"`
}

// TestEvaluationResult is the complete outcome of one evaluation job, shaped
// for the external report layer.
type TestEvaluationResult struct {
	JobID             string          `json:"job_id"`
	TestID            string          `json:"test_id"`
	TotalScore        float64         `json:"total_score"`
	MaxPossibleScore  float64         `json:"max_possible_score"`
	Percentage        float64         `json:"percentage"`
	QuestionScores    []QuestionScore `json:"question_scores"`
	EvaluationSummary string          `json:"evaluation_summary"`
	ProcessingTime    float64         `json:"processing_time"`
}

// NewTestEvaluationResult shapes a scoring summary into the report result.
func NewTestEvaluationResult(jobID string, summary *domain.ScoringSummary, elapsed time.Duration) *TestEvaluationResult {
	result := &TestEvaluationResult{
		JobID:             jobID,
		TestID:            fmt.Sprintf("TEST-%s", shortID(jobID)),
		TotalScore:        summary.TotalScore,
		MaxPossibleScore:  summary.MaxPossibleScore,
		Percentage:        summary.Percentage,
		EvaluationSummary: summary.Summary,
		ProcessingTime:    elapsed.Seconds(),
	}

	for _, q := range summary.Questions {
		score := QuestionScore{
			QuestionID:   q.ID,
			QuestionText: truncateText(q.Text, 100),
			QuestionType: string(q.Type),
		}
		if ev := q.Evaluation; ev != nil {
			score.MaxScore = ev.MaxScore
			score.AwardedScore = ev.Score
			score.Confidence = ev.Confidence
			score.Feedback = ev.Feedback
		}
		result.QuestionScores = append(result.QuestionScores, score)
	}

	return result
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
