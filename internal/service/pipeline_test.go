package service

import (
	"context"
	"testing"

	"exam-eval/internal/config"
	"exam-eval/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() *EvaluationPipeline {
	return NewEvaluationPipeline(config.EvaluationConfig{}, nil)
}

func TestPipeline_TrueFalseWithoutAnswerKey(t *testing.T) {
	p := newTestPipeline()

	q := &domain.Question{
		ID:   "question-1",
		Text: "The sky is never green. True or False?",
		Page: 0,
	}
	doc := &domain.Document{
		Pages:     []domain.Page{{Number: 0}},
		Questions: []*domain.Question{q},
	}

	summary, err := p.Evaluate(context.Background(), doc, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.TypeTrueFalse, q.Type)
	require.NotNil(t, q.AnswerKey)
	assert.Equal(t, "false", q.AnswerKey.Text)

	ev := q.Evaluation
	require.NotNil(t, ev)
	assert.Equal(t, domain.StatusEvaluated, ev.Status)
	assert.Equal(t, 0.95, ev.Confidence)
	assert.Equal(t, 1.0, ev.MaxScore)
	assert.Equal(t, 1.0, summary.MaxPossibleScore)
}

func TestPipeline_EssayWithoutAssistService(t *testing.T) {
	p := newTestPipeline()

	q := &domain.Question{
		ID:   "question-1",
		Text: "Discuss the causes of the French Revolution.",
		Page: 0,
	}
	doc := &domain.Document{
		Pages:     []domain.Page{{Number: 0}},
		Questions: []*domain.Question{q},
	}
	keyDoc := &domain.Document{
		Pages: []domain.Page{{
			Number:     0,
			TextBlocks: []domain.TextBlock{{Text: "q1: Cover taxation, famine and the estates system"}},
		}},
	}

	_, err := p.Evaluate(context.Background(), doc, keyDoc)
	require.NoError(t, err)

	assert.Equal(t, domain.TypeEssay, q.Type)
	ev := q.Evaluation
	require.NotNil(t, ev)
	assert.Equal(t, domain.StatusNeedsReview, ev.Status)
	assert.Equal(t, 0.5, ev.Confidence)
}

func TestPipeline_MixedDocument(t *testing.T) {
	p := newTestPipeline()

	questions := []*domain.Question{
		{ID: "question-1", Text: "The sky is never green. True or False?", Page: 0},
		{ID: "question-2", Text: "Name the largest planet.", Page: 0},
		{ID: "question-3", Text: "Discuss the causes of the French Revolution.", Page: 0},
	}
	doc := &domain.Document{
		Pages:     []domain.Page{{Number: 0}},
		Questions: questions,
	}
	keyDoc := &domain.Document{
		Tables: []domain.Table{{
			Cells: [][]domain.TableCell{{{Text: "q2: Jupiter"}}},
		}},
	}

	summary, err := p.Evaluate(context.Background(), doc, keyDoc)
	require.NoError(t, err)

	// One inferred, one keyed, one left for review; the pipeline finished.
	assert.Equal(t, domain.StatusEvaluated, questions[0].Evaluation.Status)
	assert.Equal(t, domain.StatusEvaluated, questions[1].Evaluation.Status)
	assert.Equal(t, domain.StatusNeedsReview, questions[2].Evaluation.Status)
	assert.InDelta(t, 3.0, summary.MaxPossibleScore, 1e-9)
	assert.Equal(t, 0.0, summary.Percentage)
	assert.Len(t, summary.Questions, 3)
}

func TestPipeline_StageProgress(t *testing.T) {
	p := newTestPipeline()

	doc := &domain.Document{
		Pages: []domain.Page{{Number: 0}},
		Questions: []*domain.Question{
			{ID: "question-1", Text: "Name the largest planet.", Page: 0},
		},
	}

	var stages []domain.JobStatus
	_, err := p.EvaluateWithProgress(context.Background(), doc, nil, func(status domain.JobStatus) {
		stages = append(stages, status)
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.JobStatus{domain.JobAnalyzing, domain.JobEvaluating}, stages)
}

func TestPipeline_MalformedDocument(t *testing.T) {
	p := newTestPipeline()

	t.Run("nil document", func(t *testing.T) {
		_, err := p.Evaluate(context.Background(), nil, nil)
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrMalformedDocument, domainErr.Code)
	})

	t.Run("no questions", func(t *testing.T) {
		_, err := p.Evaluate(context.Background(), &domain.Document{Pages: []domain.Page{{Number: 0}}}, nil)
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrMalformedDocument, domainErr.Code)
	})
}
