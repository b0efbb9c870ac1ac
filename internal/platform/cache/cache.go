// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache stores short-lived read models, such as published blog counts.

Values are raw bytes; [GetJSON] and [SetJSON] add the encoding. A cache
failure is never fatal to a request: callers fall back to the database.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is a key/value store with per-entry expiry. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON decodes the cached value at key into target.
func GetJSON(ctx context.Context, store Cache, key string, target any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// SetJSON encodes value and stores it at key.
func SetJSON(ctx context.Context, store Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw, ttl)
}
