// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/cache"
)

/*
TestMemory_JSONRoundTrip verifies typed values survive the byte cache and deletes evict them.
*/
func TestMemory_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()

	var missing int
	assert.ErrorIs(t, cache.GetJSON(ctx, store, "count", &missing), cache.ErrMiss)

	require.NoError(t, cache.SetJSON(ctx, store, "count", 7, time.Minute))

	var count int
	require.NoError(t, cache.GetJSON(ctx, store, "count", &count))
	assert.Equal(t, 7, count)

	require.NoError(t, store.Delete(ctx, "count", "unknown"))
	assert.ErrorIs(t, cache.GetJSON(ctx, store, "count", &count), cache.ErrMiss)
}

/*
TestMemory_Expiry verifies an entry is not served once its TTL has elapsed.
*/
func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
