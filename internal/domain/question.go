package domain

// QuestionType is the fixed enumeration governing which evaluation strategy
// handles a question.
type QuestionType string

const (
	TypeUnknown        QuestionType = "unknown"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeEssay          QuestionType = "essay"
	TypeFillInBlank    QuestionType = "fill_in_blank"
	TypeMatching       QuestionType = "matching"
	TypeMathematical   QuestionType = "mathematical"
	TypeOther          QuestionType = "other"
)

// DefaultPoints returns the declared maximum score used when a question
// carries no explicit point value.
func (t QuestionType) DefaultPoints() float64 {
	switch t {
	case TypeShortAnswer, TypeMatching:
		return 2.0
	case TypeEssay:
		return 5.0
	default:
		return 1.0
	}
}

// Option is one answer choice of a choice-style question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair is one left/right pairing of a matching question.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is the identity and classification unit of the pipeline.
// Page and BBox are owned by the extraction stage and read-only here.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Page    int          `json:"page"`
	BBox    BBox         `json:"bbox"`
	Options []Option     `json:"options,omitempty"`
	Points  float64      `json:"points,omitempty"`

	// Type-specific extensions filled by the classifier.
	LeftColumn      []Option    `json:"left_column,omitempty"`
	RightColumn     []Option    `json:"right_column,omitempty"`
	Matches         []MatchPair `json:"matches,omitempty"`
	MathExpressions []string    `json:"math_expressions,omitempty"`
	RequiredUnits   string      `json:"required_units,omitempty"`
	AnswerSpace     *BBox       `json:"answer_space,omitempty"`

	AnswerKey  *AnswerKey  `json:"answer_key,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// MaxPoints returns the declared points or the per-type default.
func (q *Question) MaxPoints() float64 {
	if q.Points > 0 {
		return q.Points
	}
	return q.Type.DefaultPoints()
}

// IsClassified reports whether the classifier has already typed the question.
func (q *Question) IsClassified() bool {
	return q.Type != "" && q.Type != TypeUnknown
}

// AnswerKind tags the payload shape of a resolved answer.
type AnswerKind string

const (
	AnswerText    AnswerKind = "text"
	AnswerChoice  AnswerKind = "choice"
	AnswerBlanks  AnswerKind = "blanks"
	AnswerPairs   AnswerKind = "pairs"
	AnswerRubric  AnswerKind = "rubric"
	AnswerNumeric AnswerKind = "numeric"
)

// Rubric is the grading guidance attached to an essay answer.
type Rubric struct {
	Criteria string `json:"criteria"`
}

// NumericAnswer is a parsed numeric expected value with an optional unit.
type NumericAnswer struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// AnswerKey is the resolved expected answer for one question, represented as
// a tagged variant: exactly one payload matching Kind is populated, chosen at
// resolution time and pattern-matched at evaluation time.
type AnswerKey struct {
	Kind    AnswerKind     `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Blanks  []string       `json:"blanks,omitempty"`
	Pairs   []MatchPair    `json:"pairs,omitempty"`
	Rubric  *Rubric        `json:"rubric,omitempty"`
	Numeric *NumericAnswer `json:"numeric,omitempty"`
}

// EvaluationStatus is the outcome state of scoring one question.
type EvaluationStatus string

const (
	StatusEvaluated          EvaluationStatus = "evaluated"
	StatusPartiallyEvaluated EvaluationStatus = "partially_evaluated"
	StatusNeedsReview        EvaluationStatus = "needs_review"
)

// Evaluation is the result of scoring one question. Confidence is a static
// reliability prior per strategy, not a probability computed from data.
type Evaluation struct {
	Status              EvaluationStatus `json:"status"`
	CorrectAnswer       *AnswerKey       `json:"correct_answer,omitempty"`
	StudentAnswer       string           `json:"student_answer,omitempty"`
	IsCorrect           *bool            `json:"is_correct,omitempty"`
	Score               float64          `json:"score"`
	MaxScore            float64          `json:"max_score"`
	Confidence          float64          `json:"confidence"`
	SimilarityThreshold float64          `json:"similarity_threshold,omitempty"`
	PartialCredit       bool             `json:"partial_credit,omitempty"`
	Rubric              *Rubric          `json:"rubric,omitempty"`
	Feedback            string           `json:"feedback,omitempty"`
	Message             string           `json:"message,omitempty"`
}

// ScoringSummary is the aggregate result over all evaluated questions.
type ScoringSummary struct {
	TotalScore       float64     `json:"total_score"`
	MaxPossibleScore float64     `json:"max_possible_score"`
	Percentage       float64     `json:"percentage"`
	Questions        []*Question `json:"questions"`
	Summary          string      `json:"summary"`
}

// EssayReview is the structured judgment returned by an essay assist service.
// All scores are normalized to [0,1].
type EssayReview struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	KeywordHits  []string `json:"keyword_matches,omitempty"`
	Completeness float64  `json:"completeness"`
	Relevance    float64  `json:"relevance"`
	Accuracy     float64  `json:"accuracy"`
}
