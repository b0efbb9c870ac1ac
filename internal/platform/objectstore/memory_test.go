// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/objectstore"
)

func TestMemory_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemory()

	require.NoError(t, store.Put(ctx, "images/a", strings.NewReader("png-bytes"), 9, "image/png"))

	object, err := store.Get(ctx, "images/a")
	require.NoError(t, err)
	data, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", object.ContentType)

	require.NoError(t, store.Delete(ctx, "images/a"))
	_, err = store.Get(ctx, "images/a")
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
	assert.Equal(t, 1, store.Deletes["images/a"])
}
