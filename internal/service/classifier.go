package service

import (
	"regexp"
	"strings"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"

	"go.uber.org/zap"
)

var (
	trueFalsePatterns = []*regexp.Regexp{
		regexp.MustCompile(`true or false`),
		regexp.MustCompile(`mark (t|true) or (f|false)`),
		regexp.MustCompile(`(t|true)/(f|false)`),
	}

	essayIndicators = []*regexp.Regexp{
		regexp.MustCompile(`discuss`),
		regexp.MustCompile(`explain in detail`),
		regexp.MustCompile(`analyze`),
		regexp.MustCompile(`compare and contrast`),
		regexp.MustCompile(`evaluate`),
		regexp.MustCompile(`describe`),
		regexp.MustCompile(`elaborate on`),
	}

	// One matching line looks like "A. Left item   1. Right item".
	matchingLinePattern = regexp.MustCompile(`([A-Z])\.\s*(.*?)\s*(\d+)\.\s*(.*)`)

	mathExpressionPattern = regexp.MustCompile(`\$(.+?)\$`)
	requiredUnitsPattern  = regexp.MustCompile(`in\s+(\w+)$|express\s+in\s+(\w+)`)
)

// Questions longer than this word count are treated as essay prompts.
const essayWordCountThreshold = 15

// QuestionClassifier assigns one semantic type to each detected question
// using text-pattern heuristics and layout cues.
type QuestionClassifier struct{}

// NewQuestionClassifier creates a new QuestionClassifier.
func NewQuestionClassifier() *QuestionClassifier {
	return &QuestionClassifier{}
}

// Classify types every question of the document in place and returns the
// question list. Classification is idempotent: a question already carrying a
// non-unknown type is left untouched.
func (c *QuestionClassifier) Classify(doc *domain.Document) []*domain.Question {
	l := logger.Get()
	l.Info("Classifying questions", zap.Int("count", len(doc.Questions)))

	for _, q := range doc.Questions {
		if q.IsClassified() {
			continue
		}

		q.Type = c.classifyType(q, doc)

		switch q.Type {
		case domain.TypeTrueFalse:
			// Synthesize the standard two-option list.
			q.Options = []domain.Option{
				{ID: "true", Text: "True"},
				{ID: "false", Text: "False"},
			}
		case domain.TypeShortAnswer:
			if space := c.findAnswerSpace(q, doc); space != nil {
				q.AnswerSpace = space
			}
		case domain.TypeMatching:
			c.extractMatchingFeatures(q)
		case domain.TypeMathematical:
			c.extractMathematicalFeatures(q)
		}

		l.Debug("Classified question",
			zap.String("id", q.ID),
			zap.String("type", string(q.Type)))
	}

	return doc.Questions
}

// classifyType applies the decision rules in order; the first match wins.
func (c *QuestionClassifier) classifyType(q *domain.Question, doc *domain.Document) domain.QuestionType {
	if len(q.Options) > 0 {
		return domain.TypeMultipleChoice
	}
	if c.isTrueFalse(q) {
		return domain.TypeTrueFalse
	}
	if c.isEssay(q) {
		return domain.TypeEssay
	}
	if c.hasMatchingStructure(q) {
		return domain.TypeMatching
	}
	if c.hasMathematicalStructure(q) {
		return domain.TypeMathematical
	}
	// Short answer is the default whenever the question's page can be
	// inspected for a blank-line run; without layout there is no signal left.
	if doc.PageByNumber(q.Page) != nil {
		return domain.TypeShortAnswer
	}
	return domain.TypeOther
}

func (c *QuestionClassifier) isTrueFalse(q *domain.Question) bool {
	text := strings.ToLower(q.Text)
	for _, p := range trueFalsePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *QuestionClassifier) isEssay(q *domain.Question) bool {
	text := strings.ToLower(q.Text)
	for _, p := range essayIndicators {
		if p.MatchString(text) {
			return true
		}
	}
	return len(strings.Fields(text)) > essayWordCountThreshold
}

func (c *QuestionClassifier) hasMatchingStructure(q *domain.Question) bool {
	for _, line := range strings.Split(q.Text, "\n") {
		if matchingLinePattern.MatchString(line) {
			return true
		}
	}
	return false
}

func (c *QuestionClassifier) hasMathematicalStructure(q *domain.Question) bool {
	if mathExpressionPattern.MatchString(q.Text) {
		return true
	}
	return requiredUnitsPattern.MatchString(strings.ToLower(q.Text))
}

// findAnswerSpace locates the blank-line block below the question on the
// same page, if any.
func (c *QuestionClassifier) findAnswerSpace(q *domain.Question, doc *domain.Document) *domain.BBox {
	page := doc.PageByNumber(q.Page)
	if page == nil {
		return nil
	}
	for _, block := range page.TextBlocks {
		if block.BBox.Top() <= q.BBox.Bottom() {
			continue
		}
		if strings.Contains(block.Text, "___") || strings.Contains(block.Text, "__") {
			space := block.BBox
			return &space
		}
	}
	return nil
}

// extractMatchingFeatures parses the two-column letter/number line pattern
// into aligned left/right item lists and the implied pairing.
func (c *QuestionClassifier) extractMatchingFeatures(q *domain.Question) {
	var left, right []domain.Option
	var matches []domain.MatchPair

	for _, line := range strings.Split(q.Text, "\n") {
		m := matchingLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		leftItem := domain.Option{ID: m[1], Text: strings.TrimSpace(m[2])}
		rightItem := domain.Option{ID: m[3], Text: strings.TrimSpace(m[4])}
		left = append(left, leftItem)
		right = append(right, rightItem)
		matches = append(matches, domain.MatchPair{Left: leftItem.ID, Right: rightItem.ID})
	}

	if len(left) > 0 && len(right) > 0 {
		q.LeftColumn = left
		q.RightColumn = right
		q.Matches = matches
	}
}

// extractMathematicalFeatures scans for $-delimited expressions and an
// explicit target-units phrase.
func (c *QuestionClassifier) extractMathematicalFeatures(q *domain.Question) {
	for _, m := range mathExpressionPattern.FindAllStringSubmatch(q.Text, -1) {
		q.MathExpressions = append(q.MathExpressions, m[1])
	}

	if m := requiredUnitsPattern.FindStringSubmatch(strings.ToLower(q.Text)); m != nil {
		if m[1] != "" {
			q.RequiredUnits = m[1]
		} else {
			q.RequiredUnits = m[2]
		}
	}
}
