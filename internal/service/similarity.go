package service

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"exam-eval/internal/logger"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// Spans shorter than this use character sequence matching; TF-IDF degenerates
// on very short strings.
const shortTextLimit = 50

var errEmptyVocabulary = errors.New("empty vocabulary after filtering")

// SimilarityEngine computes a normalized similarity in [0,1] between two text
// spans. The vectorizer is fitted fresh per comparison so one question's
// vocabulary never leaks into another.
type SimilarityEngine struct{}

// NewSimilarityEngine creates a new SimilarityEngine.
func NewSimilarityEngine() *SimilarityEngine {
	return &SimilarityEngine{}
}

// Similarity returns the normalized similarity between a and b. Vectorization
// failures fall back to sequence matching and are never surfaced.
func (e *SimilarityEngine) Similarity(a, b string) float64 {
	if len(a) < shortTextLimit && len(b) < shortTextLimit {
		return sequenceRatio(a, b)
	}

	sim, err := e.tfidfCosine(a, b)
	if err != nil {
		logger.Get().Debug("Vectorization failed, falling back to sequence matching",
			zap.Error(err))
		return sequenceRatio(a, b)
	}
	return sim
}

// sequenceRatio is the longest-matching-blocks ratio over case-folded
// character sequences.
func sequenceRatio(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	)
	return m.Ratio()
}

// tfidfCosine vectorizes both spans with TF-IDF over the two-document corpus
// and returns their cosine similarity.
func (e *SimilarityEngine) tfidfCosine(a, b string) (float64, error) {
	tokensA := preprocessText(a)
	tokensB := preprocessText(b)

	counts := [2]map[string]float64{countTokens(tokensA), countTokens(tokensB)}

	vocab := make(map[string]struct{})
	for _, c := range counts {
		for term := range c {
			vocab[term] = struct{}{}
		}
	}
	if len(vocab) == 0 {
		return 0, errEmptyVocabulary
	}

	// Smoothed idf over the two-document corpus.
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		df := 0
		for _, c := range counts {
			if c[term] > 0 {
				df++
			}
		}
		idf[term] = math.Log(3.0/float64(1+df)) + 1
	}

	var dot, magA, magB float64
	for term := range vocab {
		wa := counts[0][term] * idf[term]
		wb := counts[1][term] * idf[term]
		dot += wa * wb
		magA += wa * wa
		magB += wb * wb
	}
	if magA == 0 || magB == 0 {
		return 0, errEmptyVocabulary
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// preprocessText lowercases, strips stopwords, keeps alphanumeric tokens only
// and reduces each token to its stem.
func preprocessText(text string) []string {
	cleaned := stopwords.CleanString(strings.ToLower(text), "en", false)

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if !isAlphanumeric(tok) {
			continue
		}
		if stemmed, err := snowball.Stem(tok, "english", true); err == nil {
			tokens = append(tokens, stemmed)
		} else {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func countTokens(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}
