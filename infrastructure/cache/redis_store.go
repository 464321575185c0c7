package cache

import (
	"context"
	"errors"
	"time"

	"media-catalog/domain/model"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a Redis client once at process start; the client is
// shared across requests.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis ping failed - cache will degrade to miss")
		return client, err
	}
	return client, nil
}

// RedisStore implements repository.ICacheStore on a Redis connection
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) repository.ICacheStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, model.NewCacheUnavailableError(err)
	}
	return payload, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return model.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return model.NewCacheUnavailableError(err)
	}
	return nil
}

// DeleteByPrefix walks the keyspace with SCAN and deletes every key under
// prefix. O(n) in store size; reserved for kind-wide invalidation.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return deleted, model.NewCacheUnavailableError(err)
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, model.NewCacheUnavailableError(err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return deleted, model.NewCacheUnavailableError(err)
		}
		deleted += len(batch)
	}
	return deleted, nil
}
