package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Logger     LoggerConfig
	Evaluation EvaluationConfig
	Assist     AssistConfig
	Redis      RedisConfig
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// EvaluationConfig carries the numeric policy knobs for the evaluators.
// Zero values fall back to the built-in defaults.
type EvaluationConfig struct {
	MathRelativeTolerance float64 `yaml:"math_relative_tolerance"`
	MathAbsoluteTolerance float64 `yaml:"math_absolute_tolerance"`
}

// AssistConfig selects the optional essay assist provider.
// Provider is one of "ollama", "openai" or "" (no assistance).
type AssistConfig struct {
	Provider     string `yaml:"provider"`
	OllamaServer string `yaml:"ollama_server"`
	OllamaModel  string `yaml:"ollama_model"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	JobTTL   time.Duration `yaml:"job_ttl"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("assist.ollama_model", "qwen3:0.6b")
	viper.SetDefault("redis.job_ttl", "24h")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Evaluation: EvaluationConfig{
			MathRelativeTolerance: viper.GetFloat64("evaluation.math_relative_tolerance"),
			MathAbsoluteTolerance: viper.GetFloat64("evaluation.math_absolute_tolerance"),
		},
		Assist: AssistConfig{
			Provider:     viper.GetString("assist.provider"),
			OllamaServer: viper.GetString("assist.ollama_server"),
			OllamaModel:  viper.GetString("assist.ollama_model"),
			OpenAIAPIKey: viper.GetString("assist.openai_api_key"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			JobTTL:   viper.GetDuration("redis.job_ttl"),
		},
	}

	// Override with environment variables if set
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.Logger.Env = env
	}
	if provider := os.Getenv("ASSIST_PROVIDER"); provider != "" {
		config.Assist.Provider = provider
	}
	if server := os.Getenv("OLLAMA_SERVER"); server != "" {
		config.Assist.OllamaServer = server
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.Assist.OllamaModel = model
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.Assist.OpenAIAPIKey = openAIKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}
