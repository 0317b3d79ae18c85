package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roundKeyPrefix         = "round:"
	sessionRoundsKeyPrefix = "session:rounds:"
)

// Config holds configuration for the Redis history repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Expiration applies to every key written. Zero keeps them forever.
	Expiration time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedis creates a new Redis-backed history repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RedisClient == nil {
		return nil, ErrNilRedisClient
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client:     cfg.RedisClient,
		expiration: cfg.Expiration,
	}, nil
}

// SaveRound stores the result and indexes it under its session
func (r *redisRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Result == nil || input.Result.ID == "" || input.Result.SessionID == "" {
		return ErrInvalidInput
	}

	resultJSON, err := json.Marshal(input.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	sessionKey := sessionRoundsKeyPrefix + input.Result.SessionID

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, roundKeyPrefix+input.Result.ID, resultJSON, r.expiration)
	pipe.ZAdd(ctx, sessionKey, redis.Z{
		Score:  float64(input.Result.Round),
		Member: input.Result.ID,
	})
	if r.expiration > 0 {
		pipe.Expire(ctx, sessionKey, r.expiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

// GetRound retrieves a round result by ID
func (r *redisRepository) GetRound(ctx context.Context, input *GetRoundInput) (*models.RoundResult, error) {
	if input == nil || input.RoundID == "" {
		return nil, ErrInvalidInput
	}

	resultJSON, err := r.client.Get(ctx, roundKeyPrefix+input.RoundID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	var result models.RoundResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %w", err)
	}
	return &result, nil
}

// ListRounds retrieves every stored round of a session, oldest first.
// Index entries whose record has expired are skipped.
func (r *redisRepository) ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrInvalidInput
	}

	ids, err := r.client.ZRange(ctx, sessionRoundsKeyPrefix+input.SessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	rounds := make([]*models.RoundResult, 0, len(ids))
	for _, id := range ids {
		result, err := r.GetRound(ctx, &GetRoundInput{RoundID: id})
		if err != nil {
			if errors.Is(err, ErrRoundNotFound) {
				continue
			}
			return nil, err
		}
		rounds = append(rounds, result)
	}

	return &ListRoundsOutput{Rounds: rounds}, nil
}
