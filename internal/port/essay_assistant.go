package port

import (
	"context"

	"exam-eval/internal/domain"
)

// EssayAssistant is the optional service that reviews an essay answer
// against the question and its rubric. The pipeline only requires its
// presence to raise essay confidence; grading helpers call it when a
// student answer is available.
type EssayAssistant interface {
	ReviewEssay(ctx context.Context, questionText string, rubric string, studentAnswer string) (*domain.EssayReview, error)
}
