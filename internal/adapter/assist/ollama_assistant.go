package assist

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"exam-eval/internal/domain"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// ollamaAssistant implements port.EssayAssistant against an Ollama server.
type ollamaAssistant struct {
	serverURL string
	model     string
}

// NewOllamaAssistant creates a new Ollama-backed essay assistant.
func NewOllamaAssistant(serverURL, model string) (port.EssayAssistant, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	return &ollamaAssistant{serverURL: serverURL, model: model}, nil
}

// ReviewEssay implements port.EssayAssistant.
func (a *ollamaAssistant) ReviewEssay(ctx context.Context, questionText string, rubric string, studentAnswer string) (*domain.EssayReview, error) {
	l := logger.Get()
	l.Info("Reviewing essay with Ollama",
		zap.String("model", a.model),
		zap.Int("essay_length", len(studentAnswer)))

	prompt := buildReviewPrompt(questionText, rubric, studentAnswer)

	response, err := a.callLLM(ctx, prompt)
	if err != nil {
		return nil, domain.NewAssistServiceError(err)
	}

	return parseReviewResponse(response)
}

func (a *ollamaAssistant) callLLM(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	httpClient := &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	llm, err := ollama.New(
		ollama.WithServerURL(a.serverURL),
		ollama.WithModel(a.model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		l.Error("Failed to create LLM client", zap.Error(err))
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	response, err := llm.Call(ctx, prompt, llms.WithTemperature(0.1))
	if err != nil {
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", err
	}

	return response, nil
}
