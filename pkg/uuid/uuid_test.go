// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/pkg/uuid"
)

func TestNew_IsTimeOrdered(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Less(t, first, second)
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("0190f3c4-8a2b-7c3d-9e4f-5a6b7c8d9e0f"))
	assert.False(t, uuid.Valid(""))
	assert.False(t, uuid.Valid("tech"))
	assert.False(t, uuid.Valid("{0190f3c4-8a2b-7c3d-9e4f-5a6b7c8d9e0f}"))
}
