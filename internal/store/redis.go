package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит коллекции строковыми ключами Redis без TTL
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore создаёт хранилище поверх клиента Redis
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get получает документ коллекции
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, unavailable("get", key, err)
	}
	return value, nil
}

// Set перезаписывает документ коллекции
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// Ping проверяет доступность Redis
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
