package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"exam-eval/internal/domain"
)

func buildReviewPrompt(questionText, rubric, studentAnswer string) string {
	return fmt.Sprintf(`You are an exam essay reviewer. Review the essay and respond with ONLY a JSON object in the following format:
{
    "score": 0.0,
    "feedback": "brief feedback here",
    "keyword_matches": ["matched_term1", "matched_term2"],
    "completeness": 0.0,
    "relevance": 0.0,
    "accuracy": 0.0
}

Question: %s
Grading Rubric: %s
Student's Essay: %s

Rules:
1. All scores must be between 0 and 1 (1 is perfect)
2. Feedback must be under 100 words, focusing on key strengths and areas for improvement
3. Completeness measures how fully the essay addresses all aspects of the question
4. Relevance measures how well the essay stays on topic
5. Accuracy measures the factual correctness judged against the rubric`, questionText, rubric, studentAnswer)
}

// parseReviewResponse extracts the JSON review from a model response,
// tolerating code fences and reasoning preambles.
func parseReviewResponse(response string) (*domain.EssayReview, error) {
	responseStr := strings.TrimSpace(response)
	if thinkStart := strings.Index(responseStr, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(responseStr, "</think>"); thinkEnd != -1 {
			responseStr = responseStr[thinkEnd+len("</think>"):]
		}
	}

	responseStr = strings.TrimSpace(responseStr)
	responseStr = strings.TrimPrefix(responseStr, "```json")
	responseStr = strings.TrimPrefix(responseStr, "```")
	responseStr = strings.TrimSuffix(responseStr, "```")
	responseStr = strings.TrimSpace(responseStr)

	var review domain.EssayReview
	if err := json.Unmarshal([]byte(responseStr), &review); err != nil {
		return nil, domain.NewAssistServiceError(err)
	}
	return &review, nil
}
