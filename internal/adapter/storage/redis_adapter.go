package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const storageKeyPrefix = "storage:"

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAdapter stores items under storage:<profile>:<key>. A zero ttl
// keeps items until they are removed.
func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) GetItem(ctx context.Context, profile, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKey(profile, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (r *RedisAdapter) SetItem(ctx context.Context, profile, key, value string) error {
	return r.client.Set(ctx, redisKey(profile, key), value, r.ttl).Err()
}

func (r *RedisAdapter) RemoveItem(ctx context.Context, profile, key string) error {
	return r.client.Del(ctx, redisKey(profile, key)).Err()
}

func redisKey(profile, key string) string {
	return storageKeyPrefix + profile + ":" + key
}
