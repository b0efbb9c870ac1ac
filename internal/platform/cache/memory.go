// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process [Cache] for tests and single-node development.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty [Memory] cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (store *Memory) Get(_ context.Context, key string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !item.expiresAt.IsZero() && !store.now().Before(item.expiresAt) {
		delete(store.entries, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), item.value...), nil
}

func (store *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	item := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = store.now().Add(ttl)
	}
	store.entries[key] = item
	return nil
}

func (store *Memory) Delete(_ context.Context, keys ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, key := range keys {
		delete(store.entries, key)
	}
	return nil
}
