package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis hash keys, one hash per map, field = user ID.
const (
	keyCurrent  = "chengyu:current"
	keyErrors   = "chengyu:errors"
	keyFailures = "chengyu:failures"
	keyScores   = "chengyu:scores"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) GetCurrent(ctx context.Context, userID string) (string, bool, error) {
	idiom, err := s.client.HGet(ctx, keyCurrent, userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget current: %w", err)
	}
	return idiom, idiom != "", nil
}

func (s *RedisStore) SetCurrent(ctx context.Context, userID, idiom string) error {
	if err := s.client.HSet(ctx, keyCurrent, userID, idiom).Err(); err != nil {
		return fmt.Errorf("hset current: %w", err)
	}
	return nil
}

func (s *RedisStore) IncrementError(ctx context.Context, userID string) (int, error) {
	n, err := s.client.HIncrBy(ctx, keyErrors, userID, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby errors: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) IncrementFailure(ctx context.Context, userID string) (int, error) {
	n, err := s.client.HIncrBy(ctx, keyFailures, userID, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby failures: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Counters(ctx context.Context, userID string) (Counters, error) {
	var c Counters
	errs, err := s.client.HGet(ctx, keyErrors, userID).Int()
	if err != nil && err != redis.Nil {
		return c, fmt.Errorf("hget errors: %w", err)
	}
	fails, err := s.client.HGet(ctx, keyFailures, userID).Int()
	if err != nil && err != redis.Nil {
		return c, fmt.Errorf("hget failures: %w", err)
	}
	c.Errors = errs
	c.Failures = fails
	return c, nil
}

func (s *RedisStore) ClearCounters(ctx context.Context, userID string) error {
	pipe := s.client.Pipeline()
	pipe.HDel(ctx, keyErrors, userID)
	pipe.HDel(ctx, keyFailures, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear counters: %w", err)
	}
	return nil
}

func (s *RedisStore) AdjustScore(ctx context.Context, userID string, delta int) (int, error) {
	n, err := s.client.HIncrBy(ctx, keyScores, userID, int64(delta)).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby scores: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Score(ctx context.Context, userID string) (int, error) {
	n, err := s.client.HGet(ctx, keyScores, userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hget scores: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
