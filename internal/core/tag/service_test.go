// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
)

/*
TestService_Create verifies tag names are normalized, validated and unique.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantSlug string
		wantCode string
	}{
		{name: "Normalized", input: "  Go Lang ", wantName: "go lang", wantSlug: "go-lang"},
		{name: "Markup stripped", input: "<b>Rust</b>", wantName: "rust", wantSlug: "rust"},
		{name: "Empty", input: "   ", wantCode: apperr.CodeValidation},
		{name: "Too long", input: strings.Repeat("x", 200), wantCode: apperr.CodeValidation},
		{name: "Taken regardless of case", input: "EXISTING", wantCode: apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fixture.New(t)
			env.Tag(t, "existing")

			created, err := env.Tags.Create(context.Background(), tt.input)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, created.Name)
			assert.Equal(t, tt.wantSlug, created.Slug)
			assert.Empty(t, created.Blogs)
		})
	}
}

/*
TestService_Update verifies renaming keeps the blog list and rejects a name another tag uses.
*/
func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	golang := env.Tag(t, "golang")
	env.Tag(t, "rust")

	renamed, err := env.Tags.Update(ctx, golang.ID, "Go")
	require.NoError(t, err)
	assert.Equal(t, "go", renamed.Name)
	assert.Equal(t, "go", renamed.Slug)

	// Renaming to its own name is a no-op
	_, err = env.Tags.Update(ctx, golang.ID, "go")
	require.NoError(t, err)

	_, err = env.Tags.Update(ctx, golang.ID, "Rust")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)

	_, err = env.Tags.Update(ctx, "0190d7c8-0000-7000-8000-000000000000", "anything")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
}

/*
TestService_Delete verifies an unused tag is removed.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	unused := env.Tag(t, "unused")

	require.NoError(t, env.Tags.Delete(ctx, unused.ID))

	_, err := env.Tags.Get(ctx, unused.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)

	err = env.Tags.Delete(ctx, unused.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
}

/*
TestService_MalformedIDs verifies a non-UUID tag ID is invalid input rather than a missing tag.
*/
func TestService_MalformedIDs(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	_, err := env.Tags.Get(ctx, "golang")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)

	_, err = env.Tags.Update(ctx, "golang", "go")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)

	err = env.Tags.Delete(ctx, "golang")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
}
