// Package storage provides the durable key-value backends for the
// watch-history log: a Redis store for deployments with an instance at hand
// and a single-file store for standalone runs.
package storage

import (
	"context"

	"github.com/redis/go-redis/v9"

	"drama-catalog-service/internal/domain"
)

// RedisStorage implements domain.Storage on a Redis hash-free key space.
// Values carry no expiry; history survives restarts until removed.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStorage creates a Redis-backed storage.
func NewRedisStorage(client *redis.Client, keyPrefix string) *RedisStorage {
	return &RedisStorage{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.buildKey(key), value, 0).Err()
}

func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

func (s *RedisStorage) buildKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}

	return s.keyPrefix + ":" + key
}
