package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
)

const memoryKeyPrefix = "memory:"

// MemoryRepository stores exported agent memories by name.
type MemoryRepository interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type redisMemory struct {
	client *redis.Client
}

func NewRedisMemoryRepository(client *redis.Client) MemoryRepository {
	return &redisMemory{
		client: client,
	}
}

func (that *redisMemory) Save(ctx context.Context, name string, data []byte) error {
	if err := that.client.Set(ctx, memoryKeyPrefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set memory %s: %w", name, err)
	}

	return nil
}

func (that *redisMemory) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := that.client.Get(ctx, memoryKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMemoryNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get memory %s: %w", name, err)
	}

	return data, nil
}
