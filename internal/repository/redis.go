package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/high-society/auction-server-go/internal/config"
	"github.com/high-society/auction-server-go/internal/game"
)

// RedisStore persists serialized game states in redis with a TTL, so
// abandoned rooms expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ game.Store = (*RedisStore)(nil)

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Close releases the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func stateKey(roomID string) string {
	return "game:state:" + roomID
}

// Save stores the serialized state for a room, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, roomID string, data []byte) error {
	if err := s.client.Set(ctx, stateKey(roomID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// Load fetches the serialized state for a room.
func (s *RedisStore) Load(ctx context.Context, roomID string) ([]byte, error) {
	data, err := s.client.Get(ctx, stateKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	return data, nil
}

// Delete removes a room's state. Deleting a missing room is not an error.
func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, stateKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete game state: %w", err)
	}
	return nil
}
