package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"exam-eval/internal/adapter/assist"
	"exam-eval/internal/adapter/jobstore"
	"exam-eval/internal/config"
	"exam-eval/internal/domain"
	"exam-eval/internal/logger"
	"exam-eval/internal/port"
	"exam-eval/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	keyPath := flag.String("key", "", "path to an answer-key document model JSON")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: evaluate [-key answer_key.json] document.json [document.json ...]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet, so use fmt for this critical error
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Evaluation run starting", zap.Int("documents", flag.NArg()))

	assistant := buildAssistant(cfg)
	store := buildJobStore(cfg)
	pipeline := service.NewEvaluationPipeline(cfg.Evaluation, assistant)
	jobs := service.NewJobService(pipeline, store)

	var answerKey *domain.Document
	if *keyPath != "" {
		answerKey, err = loadDocument(*keyPath)
		if err != nil {
			l.Fatal("Failed to load answer key document", zap.Error(err))
		}
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)

	results := make([]json.RawMessage, flag.NArg())
	for i, path := range flag.Args() {
		g.Go(func() error {
			doc, err := loadDocument(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			result, err := jobs.Run(ctx, doc, answerKey)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.Fatal("Evaluation run failed", zap.Error(err))
	}

	for _, data := range results {
		fmt.Println(string(data))
	}
}

func buildAssistant(cfg *config.Config) port.EssayAssistant {
	l := logger.Get()
	switch cfg.Assist.Provider {
	case "ollama":
		assistant, err := assist.NewOllamaAssistant(cfg.Assist.OllamaServer, cfg.Assist.OllamaModel)
		if err != nil {
			l.Fatal("Failed to initialize Ollama assistant", zap.Error(err))
		}
		l.Info("Essay assistance enabled", zap.String("provider", "ollama"))
		return assistant
	case "openai":
		assistant, err := assist.NewOpenAIAssistant(cfg.Assist.OpenAIAPIKey, "")
		if err != nil {
			l.Fatal("Failed to initialize OpenAI assistant", zap.Error(err))
		}
		l.Info("Essay assistance enabled", zap.String("provider", "openai"))
		return assistant
	case "":
		l.Info("No essay assist provider configured; essays will need manual review")
		return nil
	default:
		l.Fatal("Unknown assist provider", zap.String("provider", cfg.Assist.Provider))
		return nil
	}
}

func buildJobStore(cfg *config.Config) port.JobStore {
	l := logger.Get()
	if cfg.Redis.Address == "" {
		l.Info("Using in-memory job store")
		return jobstore.NewMemoryJobStore()
	}
	client, err := jobstore.NewRedisClient(cfg.Redis)
	if err != nil {
		l.Fatal("Failed to initialize Redis client", zap.Error(err))
	}
	l.Info("Using Redis job store", zap.String("address", cfg.Redis.Address))
	return jobstore.NewRedisJobStore(client, cfg.Redis.JobTTL)
}

func loadDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document model: %w", err)
	}
	return &doc, nil
}
