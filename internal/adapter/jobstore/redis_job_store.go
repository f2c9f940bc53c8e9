package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"exam-eval/internal/config"
	"exam-eval/internal/domain"
	"exam-eval/internal/port"

	"github.com/redis/go-redis/v9"
)

const jobKeyPrefix = "jobs:"

// NewRedisClient creates a new Redis client and pings the server to ensure
// connectivity.
func NewRedisClient(redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Address, err)
	}

	return client, nil
}

// RedisJobStore implements port.JobStore on a Redis client. It expects a
// connected *redis.Client.
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisJobStore creates a new RedisJobStore. Jobs expire after ttl; a
// non-positive ttl keeps them indefinitely.
func NewRedisJobStore(client *redis.Client, ttl time.Duration) port.JobStore {
	return &RedisJobStore{client: client, ttl: ttl}
}

// Put stores a job under its id.
func (s *RedisJobStore) Put(ctx context.Context, job *domain.EvaluationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return domain.NewInternalError("Failed to marshal job", err)
	}
	return s.client.Set(ctx, jobKeyPrefix+job.ID, data, s.ttl).Err()
}

// Get retrieves a job by id. It translates redis.Nil to a job-not-found
// domain error.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*domain.EvaluationJob, error) {
	data, err := s.client.Get(ctx, jobKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.NewJobNotFoundError(id)
		}
		return nil, err
	}

	var job domain.EvaluationJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, domain.NewInternalError("Failed to unmarshal job", err)
	}
	return &job, nil
}

// Update overwrites the stored job state.
func (s *RedisJobStore) Update(ctx context.Context, job *domain.EvaluationJob) error {
	return s.Put(ctx, job)
}
