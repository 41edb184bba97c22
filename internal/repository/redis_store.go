package repository

import (
	"context"
	"fmt"

	"learning-timer/internal/models"
	"learning-timer/pkg/cache"
)

type RedisStore struct {
	cache *cache.RedisClient
}

func NewRedisStore(redisClient *cache.RedisClient) *RedisStore {
	return &RedisStore{cache: redisClient}
}

func (s *RedisStore) Load(ctx context.Context, key string) (models.GameState, bool, error) {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return models.GameState{}, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return models.GameState{}, false, nil
	}

	state, err := decodeState([]byte(raw))
	if err != nil {
		return models.GameState{}, false, err
	}
	return state, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, state models.GameState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, string(data), 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}
