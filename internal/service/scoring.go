package service

import (
	"fmt"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"

	"go.uber.org/zap"
)

// ScoringAggregator reduces per-question evaluations into a test-level
// summary. It never re-evaluates or mutates individual evaluations.
type ScoringAggregator struct{}

// NewScoringAggregator creates a new ScoringAggregator.
func NewScoringAggregator() *ScoringAggregator {
	return &ScoringAggregator{}
}

// Aggregate computes the total score, maximum possible score and percentage
// over all evaluated questions, returning the detail list unchanged.
func (s *ScoringAggregator) Aggregate(questions []*domain.Question) *domain.ScoringSummary {
	var total, maxPossible float64
	var scored, partial, review int

	for _, q := range questions {
		ev := q.Evaluation
		if ev == nil {
			continue
		}
		total += ev.Score
		maxPossible += ev.MaxScore

		switch ev.Status {
		case domain.StatusEvaluated:
			scored++
		case domain.StatusPartiallyEvaluated:
			partial++
		case domain.StatusNeedsReview:
			review++
		}
	}

	percentage := 0.0
	if maxPossible > 0 {
		percentage = 100 * total / maxPossible
	}

	summary := &domain.ScoringSummary{
		TotalScore:       total,
		MaxPossibleScore: maxPossible,
		Percentage:       percentage,
		Questions:        questions,
		Summary: fmt.Sprintf("Evaluated %d questions: %d auto-scored, %d partially evaluated, %d need review.",
			len(questions), scored, partial, review),
	}

	logger.Get().Info("Aggregated scores",
		zap.Float64("total_score", total),
		zap.Float64("max_possible_score", maxPossible),
		zap.Float64("percentage", percentage))

	return summary
}
