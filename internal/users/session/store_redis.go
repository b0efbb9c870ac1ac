// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quill/internal/platform/constants"
)

// RedisRevocations implements [Revocations] with one expiring key per token.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations creates a [RedisRevocations].
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (store *RedisRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := store.client.Set(ctx, constants.RedisPrefixRevokedToken+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoke_token_failed: %w", err)
	}
	return nil
}

func (store *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := store.client.Exists(ctx, constants.RedisPrefixRevokedToken+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revoked_token_lookup_failed: %w", err)
	}
	return count > 0, nil
}
