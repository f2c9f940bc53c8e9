package service

import (
	"regexp"
	"strings"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"

	"go.uber.org/zap"
)

var (
	// "question-3: Paris" or "q3 Paris" inside a table cell.
	cellEntryPattern = regexp.MustCompile(`(?i)(question-\d+|q\d+)[\s:]+([A-Za-z0-9].*)`)
	// Free-text lines additionally accept a leading "#3" id form.
	lineEntryPattern = regexp.MustCompile(`(?i)(question-\d+|q\d+|#\d+)[\s:]+([A-Za-z0-9].*)`)

	questionIDDigits = regexp.MustCompile(`\d+`)

	negationPattern  = regexp.MustCompile(`not|never|none|no`)
	universalPattern = regexp.MustCompile(`always|all|every|nobody`)

	correctGlyphs = []string{"★", "*", "correct"}
)

// AnswerKeyResolver builds a question-id to expected-answer mapping from an
// answer-key document, and infers answers directly from question content when
// no key entry exists.
type AnswerKeyResolver struct{}

// NewAnswerKeyResolver creates a new AnswerKeyResolver.
func NewAnswerKeyResolver() *AnswerKeyResolver {
	return &AnswerKeyResolver{}
}

// NormalizeQuestionID folds any accepted id spelling (q3, #3, Question-3)
// into the canonical "question-<n>" form. Unrecognized ids are returned
// lowercased unchanged.
func NormalizeQuestionID(raw string) string {
	id := strings.ToLower(strings.TrimSpace(raw))
	if digits := questionIDDigits.FindString(id); digits != "" {
		switch {
		case strings.HasPrefix(id, "question-"), strings.HasPrefix(id, "q"), strings.HasPrefix(id, "#"):
			return "question-" + digits
		}
	}
	return id
}

// Resolve scans every table cell and free-text line of the answer-key
// document for id/answer entries. Later occurrences overwrite earlier ones
// for the same id.
func (r *AnswerKeyResolver) Resolve(keyDoc *domain.Document) map[string]string {
	answers := make(map[string]string)
	if keyDoc == nil {
		return answers
	}
	l := logger.Get()

	record := func(rawID, answer string) {
		id := NormalizeQuestionID(rawID)
		if prev, ok := answers[id]; ok && prev != answer {
			l.Warn("Answer key has duplicate entry, keeping the later one",
				zap.String("question_id", id))
		}
		answers[id] = strings.TrimSpace(answer)
	}

	scanTable := func(table domain.Table) {
		for _, row := range table.Cells {
			for _, cell := range row {
				if m := cellEntryPattern.FindStringSubmatch(strings.TrimSpace(cell.Text)); m != nil {
					record(m[1], m[2])
				}
			}
		}
	}

	for _, table := range keyDoc.Tables {
		scanTable(table)
	}
	for _, page := range keyDoc.Pages {
		for _, table := range page.Tables {
			scanTable(table)
		}
		for _, block := range page.TextBlocks {
			for _, line := range strings.Split(block.Text, "\n") {
				if m := lineEntryPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
					record(m[1], m[2])
				}
			}
		}
	}

	l.Info("Resolved answer key entries", zap.Int("count", len(answers)))
	return answers
}

// InferAnswer attempts to derive the expected answer from the question itself
// when the key has no entry for it. It returns "" when no inference is
// possible.
func (r *AnswerKeyResolver) InferAnswer(q *domain.Question) string {
	switch q.Type {
	case domain.TypeMultipleChoice:
		// Sometimes the correct option is marked right in the source PDF.
		for _, opt := range q.Options {
			text := strings.ToLower(opt.Text)
			for _, glyph := range correctGlyphs {
				if strings.Contains(text, glyph) {
					return opt.ID
				}
			}
		}
	case domain.TypeTrueFalse:
		// Crude wording heuristic, acknowledged as unreliable: negations and
		// universal quantifiers both lean false, everything else leans true.
		text := strings.ToLower(q.Text)
		if negationPattern.MatchString(text) {
			return "false"
		}
		if universalPattern.MatchString(text) {
			return "false"
		}
		return "true"
	}
	return ""
}
