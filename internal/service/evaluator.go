package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"

	"go.uber.org/zap"
)

// Static reliability priors per evaluation strategy.
const (
	confidenceMultipleChoice = 0.9
	confidenceTrueFalse      = 0.95
	confidenceShortAnswer    = 0.7
	confidenceEssay          = 0.5
	confidenceEssayAssisted  = 0.6
	confidenceFillInBlank    = 0.85
	confidenceMatching       = 0.9
	confidenceMathematical   = 0.75
)

const (
	shortAnswerThreshold = 0.8
	fillInBlankThreshold = 0.9
)

// Default tolerance band for numeric comparison.
const (
	defaultMathRelativeTolerance = 0.01
	defaultMathAbsoluteTolerance = 1e-6
)

var numericWithUnitsPattern = regexp.MustCompile(`([\d.]+)\s*([a-zA-Z]+)`)

// AnswerEvaluator resolves the expected answer for each classified question
// and dispatches to the type-specific evaluation strategy. A failure on one
// question never aborts the rest; it degrades to a needs_review record.
type AnswerEvaluator struct {
	similarity *SimilarityEngine
	resolver   *AnswerKeyResolver
	assistant  port.EssayAssistant
	relTol     float64
	absTol     float64
}

// NewAnswerEvaluator creates a new AnswerEvaluator. assistant may be nil;
// essays then stay in needs_review. Non-positive tolerances fall back to the
// defaults.
func NewAnswerEvaluator(similarity *SimilarityEngine, resolver *AnswerKeyResolver, assistant port.EssayAssistant, relTol, absTol float64) *AnswerEvaluator {
	if relTol <= 0 {
		relTol = defaultMathRelativeTolerance
	}
	if absTol <= 0 {
		absTol = defaultMathAbsoluteTolerance
	}
	return &AnswerEvaluator{
		similarity: similarity,
		resolver:   resolver,
		assistant:  assistant,
		relTol:     relTol,
		absTol:     absTol,
	}
}

// Evaluate scores every question against the optional answer-key document and
// returns the question list with evaluations attached.
func (e *AnswerEvaluator) Evaluate(questions []*domain.Question, answerKey *domain.Document) []*domain.Question {
	l := logger.Get()
	l.Info("Evaluating questions", zap.Int("count", len(questions)))

	answers := e.resolver.Resolve(answerKey)

	for _, q := range questions {
		if q.Evaluation != nil {
			continue
		}
		e.evaluateOne(q, answers)
	}

	l.Info("Completed evaluation", zap.Int("count", len(questions)))
	return questions
}

func (e *AnswerEvaluator) evaluateOne(q *domain.Question, answers map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("Evaluation panicked, marking question for review",
				zap.String("question_id", q.ID),
				zap.Any("panic", r))
			q.Evaluation = needsReview(fmt.Sprintf("Evaluation failed: %v", r))
		}
	}()

	raw := answers[NormalizeQuestionID(q.ID)]
	if raw == "" {
		raw = e.resolver.InferAnswer(q)
	}
	if raw == "" {
		q.Evaluation = needsReview("No answer key found")
		return
	}

	switch q.Type {
	case domain.TypeMultipleChoice:
		e.evaluateMultipleChoice(q, raw)
	case domain.TypeTrueFalse:
		e.evaluateTrueFalse(q, raw)
	case domain.TypeShortAnswer:
		e.evaluateShortAnswer(q, raw)
	case domain.TypeEssay:
		e.evaluateEssay(q, raw)
	case domain.TypeFillInBlank:
		e.evaluateFillInBlank(q, raw)
	case domain.TypeMatching:
		e.evaluateMatching(q, raw)
	case domain.TypeMathematical:
		e.evaluateMathematical(q, raw)
	default:
		q.Evaluation = needsReview(domain.NewUnsupportedQuestionTypeError(string(q.Type)).Message)
	}
}

func needsReview(message string) *domain.Evaluation {
	return &domain.Evaluation{
		Status:     domain.StatusNeedsReview,
		Message:    message,
		Confidence: 0.0,
	}
}

func boolPtr(b bool) *bool { return &b }

// meetsThreshold is boundary-inclusive: a similarity exactly at the threshold
// counts as correct.
func meetsThreshold(sim, threshold float64) bool {
	return sim >= threshold
}

func (e *AnswerEvaluator) evaluateMultipleChoice(q *domain.Question, raw string) {
	key := &domain.AnswerKey{Kind: domain.AnswerChoice, Text: strings.TrimSpace(raw)}
	q.AnswerKey = key
	q.Evaluation = &domain.Evaluation{
		Status:        domain.StatusEvaluated,
		CorrectAnswer: key,
		IsCorrect:     boolPtr(false),
		Score:         0.0,
		MaxScore:      q.MaxPoints(),
		Confidence:    confidenceMultipleChoice,
	}
}

func (e *AnswerEvaluator) evaluateTrueFalse(q *domain.Question, raw string) {
	key := &domain.AnswerKey{Kind: domain.AnswerChoice, Text: strings.ToLower(strings.TrimSpace(raw))}
	q.AnswerKey = key
	q.Evaluation = &domain.Evaluation{
		Status:        domain.StatusEvaluated,
		CorrectAnswer: key,
		IsCorrect:     boolPtr(false),
		Score:         0.0,
		MaxScore:      q.MaxPoints(),
		Confidence:    confidenceTrueFalse,
	}
}

func (e *AnswerEvaluator) evaluateShortAnswer(q *domain.Question, raw string) {
	key := &domain.AnswerKey{Kind: domain.AnswerText, Text: strings.TrimSpace(raw)}
	q.AnswerKey = key
	q.Evaluation = &domain.Evaluation{
		Status:              domain.StatusEvaluated,
		CorrectAnswer:       key,
		IsCorrect:           boolPtr(false),
		Score:               0.0,
		MaxScore:            q.MaxPoints(),
		Confidence:          confidenceShortAnswer,
		SimilarityThreshold: shortAnswerThreshold,
	}
}

func (e *AnswerEvaluator) evaluateEssay(q *domain.Question, raw string) {
	rubric := &domain.Rubric{Criteria: strings.TrimSpace(raw)}
	if rubric.Criteria == "" {
		rubric.Criteria = "General evaluation"
	}
	key := &domain.AnswerKey{Kind: domain.AnswerRubric, Rubric: rubric}
	q.AnswerKey = key

	eval := &domain.Evaluation{
		Status:        domain.StatusNeedsReview,
		CorrectAnswer: key,
		Rubric:        rubric,
		Score:         0.0,
		MaxScore:      q.MaxPoints(),
		Confidence:    confidenceEssay,
		Feedback:      "This essay requires manual review.",
	}
	if e.assistant != nil {
		eval.Status = domain.StatusPartiallyEvaluated
		eval.Confidence = confidenceEssayAssisted
		eval.Message = "Essay evaluated with AI assistance, but human review recommended."
	}
	q.Evaluation = eval
}

func (e *AnswerEvaluator) evaluateFillInBlank(q *domain.Question, raw string) {
	var blanks []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			blanks = append(blanks, part)
		}
	}
	key := &domain.AnswerKey{Kind: domain.AnswerBlanks, Blanks: blanks}
	q.AnswerKey = key
	q.Evaluation = &domain.Evaluation{
		Status:              domain.StatusEvaluated,
		CorrectAnswer:       key,
		IsCorrect:           boolPtr(false),
		Score:               0.0,
		MaxScore:            q.MaxPoints(),
		Confidence:          confidenceFillInBlank,
		SimilarityThreshold: fillInBlankThreshold,
	}
}

func (e *AnswerEvaluator) evaluateMatching(q *domain.Question, raw string) {
	pairs := parseMatchingPairs(raw)
	key := &domain.AnswerKey{Kind: domain.AnswerPairs, Pairs: pairs}
	q.AnswerKey = key

	maxScore := q.Points
	if maxScore <= 0 {
		if len(pairs) > 0 {
			maxScore = float64(len(pairs))
		} else {
			maxScore = q.Type.DefaultPoints()
		}
	}
	q.Evaluation = &domain.Evaluation{
		Status:        domain.StatusEvaluated,
		CorrectAnswer: key,
		Score:         0.0,
		MaxScore:      maxScore,
		Confidence:    confidenceMatching,
		PartialCredit: true,
	}
}

func (e *AnswerEvaluator) evaluateMathematical(q *domain.Question, raw string) {
	numeric, err := parseNumericAnswer(raw)
	if err != nil {
		q.Evaluation = needsReview(fmt.Sprintf("Could not parse numeric answer: %q", raw))
		return
	}
	key := &domain.AnswerKey{Kind: domain.AnswerNumeric, Numeric: numeric}
	q.AnswerKey = key
	q.Evaluation = &domain.Evaluation{
		Status:        domain.StatusEvaluated,
		CorrectAnswer: key,
		IsCorrect:     boolPtr(false),
		Score:         0.0,
		MaxScore:      q.MaxPoints(),
		Confidence:    confidenceMathematical,
	}
}

// parseMatchingPairs parses an answer string of the form "A-1, B-2" into
// ordered pairs.
func parseMatchingPairs(raw string) []domain.MatchPair {
	var pairs []domain.MatchPair
	for _, part := range strings.Split(raw, ",") {
		left, right, found := strings.Cut(part, "-")
		if !found {
			continue
		}
		pairs = append(pairs, domain.MatchPair{
			Left:  strings.TrimSpace(left),
			Right: strings.TrimSpace(right),
		})
	}
	return pairs
}

// parseNumericAnswer parses the expected answer as a plain float, or as a
// value with trailing alphabetic units ("42 km").
func parseNumericAnswer(raw string) (*domain.NumericAnswer, error) {
	raw = strings.TrimSpace(raw)
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return &domain.NumericAnswer{Value: value}, nil
	}
	m := numericWithUnitsPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a numeric answer: %q", raw))
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a numeric answer: %q", raw))
	}
	return &domain.NumericAnswer{Value: value, Unit: strings.ToLower(m[2])}, nil
}

// --- Grading helpers -------------------------------------------------------
//
// Student-answer binding is an outer-layer concern; once a student answer is
// available these helpers complete the prepared evaluation in place.

// GradeMultipleChoice compares a selected option id to the resolved answer.
func (e *AnswerEvaluator) GradeMultipleChoice(q *domain.Question, selected string) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil {
		return
	}
	ev.StudentAnswer = selected
	correct := strings.EqualFold(strings.TrimSpace(selected), q.AnswerKey.Text)
	ev.IsCorrect = boolPtr(correct)
	if correct {
		ev.Score = ev.MaxScore
	}
}

// GradeTrueFalse compares the student's true/false choice to the key.
func (e *AnswerEvaluator) GradeTrueFalse(q *domain.Question, answer string) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil {
		return
	}
	ev.StudentAnswer = answer
	correct := strings.ToLower(strings.TrimSpace(answer)) == q.AnswerKey.Text
	ev.IsCorrect = boolPtr(correct)
	if correct {
		ev.Score = ev.MaxScore
	}
}

// GradeShortAnswer judges the student answer correct iff its similarity to
// the key reaches the threshold (boundary inclusive).
func (e *AnswerEvaluator) GradeShortAnswer(q *domain.Question, answer string) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil {
		return
	}
	ev.StudentAnswer = answer
	sim := e.similarity.Similarity(answer, q.AnswerKey.Text)
	correct := meetsThreshold(sim, ev.SimilarityThreshold)
	ev.IsCorrect = boolPtr(correct)
	if correct {
		ev.Score = ev.MaxScore
	}
}

// GradeFillInBlank scores each blank by similarity against the expected value
// in order, awarding proportional credit.
func (e *AnswerEvaluator) GradeFillInBlank(q *domain.Question, answers []string) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil || len(q.AnswerKey.Blanks) == 0 {
		return
	}
	ev.StudentAnswer = strings.Join(answers, ", ")

	matched := 0
	for i, expected := range q.AnswerKey.Blanks {
		if i >= len(answers) {
			break
		}
		if meetsThreshold(e.similarity.Similarity(answers[i], expected), ev.SimilarityThreshold) {
			matched++
		}
	}
	ev.Score = ev.MaxScore * float64(matched) / float64(len(q.AnswerKey.Blanks))
	ev.IsCorrect = boolPtr(matched == len(q.AnswerKey.Blanks))
}

// GradeMatching awards partial credit for each correctly matched pair.
func (e *AnswerEvaluator) GradeMatching(q *domain.Question, answers []domain.MatchPair) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil || len(q.AnswerKey.Pairs) == 0 {
		return
	}

	expected := make(map[string]string, len(q.AnswerKey.Pairs))
	for _, p := range q.AnswerKey.Pairs {
		expected[p.Left] = p.Right
	}

	matched := 0
	for _, p := range answers {
		if expected[p.Left] == p.Right {
			matched++
		}
	}
	ev.Score = ev.MaxScore * float64(matched) / float64(len(q.AnswerKey.Pairs))
}

// GradeMathematical parses the student's numeric answer and compares it
// within the tolerance band |student-expected| <= max(absTol, relTol*|expected|).
// When the key carries a unit the student answer must carry the same unit.
func (e *AnswerEvaluator) GradeMathematical(q *domain.Question, answer string) {
	ev := q.Evaluation
	if ev == nil || q.AnswerKey == nil || q.AnswerKey.Numeric == nil {
		return
	}
	ev.StudentAnswer = answer

	student, err := parseNumericAnswer(answer)
	if err != nil {
		ev.IsCorrect = boolPtr(false)
		ev.Message = "Student answer is not numeric"
		return
	}

	expected := q.AnswerKey.Numeric
	if expected.Unit != "" && student.Unit != expected.Unit {
		ev.IsCorrect = boolPtr(false)
		ev.Message = fmt.Sprintf("Expected answer in %s", expected.Unit)
		return
	}

	tolerance := math.Max(e.absTol, e.relTol*math.Abs(expected.Value))
	correct := math.Abs(student.Value-expected.Value) <= tolerance
	ev.IsCorrect = boolPtr(correct)
	if correct {
		ev.Score = ev.MaxScore
	}
}

// GradeEssay sends the student essay to the assist service when one is
// configured. Assist failures degrade the evaluation back to manual review;
// they are never propagated.
func (e *AnswerEvaluator) GradeEssay(ctx context.Context, q *domain.Question, answer string) {
	ev := q.Evaluation
	if ev == nil {
		return
	}
	ev.StudentAnswer = answer
	if e.assistant == nil {
		return
	}

	rubric := ""
	if ev.Rubric != nil {
		rubric = ev.Rubric.Criteria
	}
	review, err := e.assistant.ReviewEssay(ctx, q.Text, rubric, answer)
	if err != nil {
		logger.Get().Warn("Essay assist service failed, keeping manual review",
			zap.String("question_id", q.ID),
			zap.Error(err))
		ev.Status = domain.StatusNeedsReview
		ev.Confidence = confidenceEssay
		ev.Message = domain.NewAssistServiceError(err).Message
		return
	}

	score := review.Score
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	ev.Score = ev.MaxScore * score
	ev.Feedback = review.Feedback
	ev.Status = domain.StatusPartiallyEvaluated
	ev.Confidence = confidenceEssayAssisted
}
