// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a [Cache] backed by a shared go-redis client.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a [Redis] cache that namespaces every key with prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (store *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := store.client.Get(ctx, store.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return value, err
}

func (store *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return store.client.Set(ctx, store.prefix+key, value, ttl).Err()
}

func (store *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = store.prefix + key
	}
	return store.client.Del(ctx, prefixed...).Err()
}
