package kvcache

import (
	"context"

	"lyrics-etymology/pkg/redis"
)

// redisBackend is the subset of the redis wrapper the store needs.
type redisBackend interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

var _ redisBackend = (*redis.Client)(nil)

// RedisStore persists entries in redis without expiry.
type RedisStore struct {
	client redisBackend
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.client.GetBytes(ctx, key)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value)
}
