package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	pkgerrors "remit/pkg/errors"
)

// RedisKV is the Redis-backed key/value store used in deployments.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(url, password string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisKV{client: client}, nil
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	result, err := s.client.Exists(ctx, key).Result()
	return result > 0, err
}

// Client exposes the underlying connection for collaborators that share the
// same Redis instance, such as the forex rate cache.
func (s *RedisKV) Client() *redis.Client {
	return s.client
}

func (s *RedisKV) Close() error {
	return s.client.Close()
}
