package service

import (
	"context"

	"exam-eval/internal/config"
	"exam-eval/internal/domain"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"

	"go.uber.org/zap"
)

// EvaluationPipeline runs classification, answer resolution, evaluation and
// aggregation as a single sequential pass over the document's questions. The
// pipeline holds no state between invocations.
type EvaluationPipeline struct {
	classifier *QuestionClassifier
	evaluator  *AnswerEvaluator
	aggregator *ScoringAggregator
}

// NewEvaluationPipeline wires the pipeline components. assistant may be nil.
func NewEvaluationPipeline(evalCfg config.EvaluationConfig, assistant port.EssayAssistant) *EvaluationPipeline {
	similarity := NewSimilarityEngine()
	resolver := NewAnswerKeyResolver()
	return &EvaluationPipeline{
		classifier: NewQuestionClassifier(),
		evaluator:  NewAnswerEvaluator(similarity, resolver, assistant, evalCfg.MathRelativeTolerance, evalCfg.MathAbsoluteTolerance),
		aggregator: NewScoringAggregator(),
	}
}

// Evaluate runs the full pipeline over an extracted document model and an
// optional answer-key document. Per-question failures degrade to needs_review
// records; only a malformed document fails the whole run.
func (p *EvaluationPipeline) Evaluate(ctx context.Context, doc *domain.Document, answerKey *domain.Document) (*domain.ScoringSummary, error) {
	return p.EvaluateWithProgress(ctx, doc, answerKey, nil)
}

// EvaluateWithProgress is Evaluate with a stage callback, invoked as the
// pipeline enters each stage. onStage may be nil.
func (p *EvaluationPipeline) EvaluateWithProgress(ctx context.Context, doc *domain.Document, answerKey *domain.Document, onStage func(domain.JobStatus)) (*domain.ScoringSummary, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	l := logger.Get()
	l.Info("Starting evaluation pipeline",
		zap.Int("pages", len(doc.Pages)),
		zap.Int("questions", len(doc.Questions)))

	notify := func(status domain.JobStatus) {
		if onStage != nil {
			onStage(status)
		}
	}

	notify(domain.JobAnalyzing)
	questions := p.classifier.Classify(doc)

	notify(domain.JobEvaluating)
	questions = p.evaluator.Evaluate(questions, answerKey)
	summary := p.aggregator.Aggregate(questions)

	return summary, nil
}

func validateDocument(doc *domain.Document) error {
	if doc == nil {
		return domain.NewMalformedDocumentError("document model is nil")
	}
	if len(doc.Questions) == 0 {
		return domain.NewMalformedDocumentError("document model contains no questions")
	}
	return nil
}
