package assist

import (
	"context"
	"fmt"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// openAIAssistant implements port.EssayAssistant using the OpenAI chat API.
type openAIAssistant struct {
	client *openai.Client
	model  string
}

// NewOpenAIAssistant creates a new OpenAI-backed essay assistant. model may
// be empty, in which case a small default model is used.
func NewOpenAIAssistant(apiKey, model string) (port.EssayAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is missing")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIAssistant{client: openai.NewClient(apiKey), model: model}, nil
}

// ReviewEssay implements port.EssayAssistant.
func (a *openAIAssistant) ReviewEssay(ctx context.Context, questionText string, rubric string, studentAnswer string) (*domain.EssayReview, error) {
	l := logger.Get()
	l.Info("Reviewing essay with OpenAI",
		zap.String("model", a.model),
		zap.Int("essay_length", len(studentAnswer)))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildReviewPrompt(questionText, rubric, studentAnswer),
			},
		},
	})
	if err != nil {
		l.Error("Failed to get response from OpenAI", zap.Error(err))
		return nil, domain.NewAssistServiceError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewAssistServiceError(fmt.Errorf("received empty response from OpenAI"))
	}

	return parseReviewResponse(resp.Choices[0].Message.Content)
}
