package service

import (
	"testing"

	"exam-eval/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithQuestions(questions ...*domain.Question) *domain.Document {
	return &domain.Document{
		Pages:     []domain.Page{{Number: 0}},
		Questions: questions,
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	c := NewQuestionClassifier()

	q := &domain.Question{
		ID:   "question-1",
		Text: "True or False: water boils at 100 degrees.",
		Type: domain.TypeEssay, // already typed; the text must not matter
	}
	c.Classify(docWithQuestions(q))

	assert.Equal(t, domain.TypeEssay, q.Type)
	assert.Empty(t, q.Options)
}

func TestClassifier_MultipleChoice(t *testing.T) {
	c := NewQuestionClassifier()

	q := &domain.Question{
		ID:   "question-1",
		Text: "What is the capital of France?",
		Options: []domain.Option{
			{ID: "a", Text: "London"},
			{ID: "b", Text: "Paris"},
		},
	}
	c.Classify(docWithQuestions(q))

	assert.Equal(t, domain.TypeMultipleChoice, q.Type)
}

func TestClassifier_TrueFalse(t *testing.T) {
	c := NewQuestionClassifier()

	tests := []struct {
		name string
		text string
	}{
		{"true or false", "The sky is blue. True or False?"},
		{"mark t or f", "Mark T or F: water is wet."},
		{"slash form", "T/F: birds can fly."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &domain.Question{ID: "question-1", Text: tt.text}
			c.Classify(docWithQuestions(q))

			assert.Equal(t, domain.TypeTrueFalse, q.Type)
			require.Len(t, q.Options, 2)
			assert.Equal(t, "true", q.Options[0].ID)
			assert.Equal(t, "false", q.Options[1].ID)
		})
	}
}

func TestClassifier_Essay(t *testing.T) {
	c := NewQuestionClassifier()

	t.Run("indicator phrase", func(t *testing.T) {
		q := &domain.Question{ID: "question-1", Text: "Discuss the causes of the French Revolution."}
		c.Classify(docWithQuestions(q))
		assert.Equal(t, domain.TypeEssay, q.Type)
	})

	t.Run("long question", func(t *testing.T) {
		q := &domain.Question{
			ID:   "question-1",
			Text: "In what year did the first successful powered flight take place and who were the two brothers credited with it?",
		}
		c.Classify(docWithQuestions(q))
		assert.Equal(t, domain.TypeEssay, q.Type)
	})
}

func TestClassifier_ShortAnswer(t *testing.T) {
	c := NewQuestionClassifier()

	t.Run("blank line below question", func(t *testing.T) {
		q := &domain.Question{
			ID:   "question-1",
			Text: "Name the largest planet.",
			Page: 0,
			BBox: domain.BBox{50, 100, 300, 120},
		}
		doc := &domain.Document{
			Pages: []domain.Page{{
				Number: 0,
				TextBlocks: []domain.TextBlock{
					{Text: "_____", BBox: domain.BBox{50, 130, 300, 150}},
				},
			}},
			Questions: []*domain.Question{q},
		}
		c.Classify(doc)

		assert.Equal(t, domain.TypeShortAnswer, q.Type)
		require.NotNil(t, q.AnswerSpace)
		assert.Equal(t, domain.BBox{50, 130, 300, 150}, *q.AnswerSpace)
	})

	t.Run("default fallback without blanks", func(t *testing.T) {
		q := &domain.Question{
			ID:   "question-1",
			Text: "Name the largest planet.",
			Page: 0,
		}
		c.Classify(docWithQuestions(q))

		assert.Equal(t, domain.TypeShortAnswer, q.Type)
		assert.Nil(t, q.AnswerSpace)
	})

	t.Run("blocks above the question are ignored", func(t *testing.T) {
		q := &domain.Question{
			ID:   "question-1",
			Text: "Name the largest planet.",
			Page: 0,
			BBox: domain.BBox{50, 100, 300, 120},
		}
		doc := &domain.Document{
			Pages: []domain.Page{{
				Number: 0,
				TextBlocks: []domain.TextBlock{
					{Text: "_____", BBox: domain.BBox{50, 10, 300, 30}},
				},
			}},
			Questions: []*domain.Question{q},
		}
		c.Classify(doc)

		assert.Equal(t, domain.TypeShortAnswer, q.Type)
		assert.Nil(t, q.AnswerSpace)
	})
}

func TestClassifier_Other(t *testing.T) {
	c := NewQuestionClassifier()

	// Without a resolvable page there is no layout signal left.
	q := &domain.Question{ID: "question-1", Text: "Name the largest planet.", Page: 7}
	c.Classify(docWithQuestions(q))

	assert.Equal(t, domain.TypeOther, q.Type)
}

func TestClassifier_Matching(t *testing.T) {
	c := NewQuestionClassifier()

	q := &domain.Question{
		ID:   "question-1",
		Text: "Match the animal to its sound:\nA. Dog  1. Meow\nB. Cat  2. Bark",
	}
	c.Classify(docWithQuestions(q))

	assert.Equal(t, domain.TypeMatching, q.Type)
	require.Len(t, q.LeftColumn, 2)
	require.Len(t, q.RightColumn, 2)
	assert.Equal(t, domain.Option{ID: "A", Text: "Dog"}, q.LeftColumn[0])
	assert.Equal(t, domain.Option{ID: "1", Text: "Meow"}, q.RightColumn[0])
	assert.Equal(t, []domain.MatchPair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}}, q.Matches)
}

func TestClassifier_Mathematical(t *testing.T) {
	c := NewQuestionClassifier()

	t.Run("inline expressions", func(t *testing.T) {
		q := &domain.Question{ID: "question-1", Text: "Solve $x + 2 = 5$ for x"}
		c.Classify(docWithQuestions(q))

		assert.Equal(t, domain.TypeMathematical, q.Type)
		assert.Equal(t, []string{"x + 2 = 5"}, q.MathExpressions)
	})

	t.Run("target units phrase", func(t *testing.T) {
		q := &domain.Question{ID: "question-1", Text: "Compute the total distance in km"}
		c.Classify(docWithQuestions(q))

		assert.Equal(t, domain.TypeMathematical, q.Type)
		assert.Equal(t, "km", q.RequiredUnits)
	})
}
