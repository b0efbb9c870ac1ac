// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
	"github.com/taibuivan/quill/pkg/uuid"
)

type thread struct {
	env      *fixture.Env
	post     *blog.Blog
	reader   comment.Principal
	stranger comment.Principal
	author   comment.Principal
}

func newThread(t *testing.T) *thread {
	t.Helper()
	env := fixture.New(t)
	writer := env.Author(t)

	return &thread{
		env:      env,
		post:     env.Blog(t, writer.ID, "Open thread", nil, nil, blog.ActionPublish),
		reader:   comment.Principal{Kind: relation.KindViewer, ID: env.Viewer(t, "reader").ID},
		stranger: comment.Principal{Kind: relation.KindViewer, ID: env.Viewer(t, "stranger").ID},
		author:   comment.Principal{Kind: relation.KindAuthor, ID: writer.ID},
	}
}

/*
TestService_Create verifies a comment is mirrored on its blog and its writer.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	created, err := th.env.Comments.Create(ctx, th.reader, th.post.ID, "  <script>x</script>Great post ")
	require.NoError(t, err)
	assert.Equal(t, "Great post", strings.TrimSpace(created.Content))
	require.NotNil(t, created.ViewerID)
	assert.Equal(t, th.reader.ID, *created.ViewerID)
	assert.Nil(t, created.AuthorID)

	post, err := th.env.Blogs.Get(ctx, th.post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, post.Comments)

	viewer, err := th.env.Viewers.Get(ctx, th.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, viewer.Comments)

	listed, err := th.env.Comments.List(ctx, th.post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	tests := []struct {
		name     string
		blogID   string
		content  string
		wantCode string
	}{
		{name: "Empty", blogID: th.post.ID, content: " ", wantCode: apperr.CodeValidation},
		{name: "Too long", blogID: th.post.ID, content: strings.Repeat("a", comment.MaxContentLength+1), wantCode: apperr.CodeValidation},
		{name: "Unknown blog", blogID: uuid.New(), content: "Hello", wantCode: apperr.CodeNotFound},
		{name: "Malformed blog", blogID: "not-a-uuid", content: "Hello", wantCode: apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := th.env.Comments.Create(ctx, th.reader, tt.blogID, tt.content)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

/*
TestService_OnlyOwnerMayChange verifies another principal cannot edit or delete a comment.
*/
func TestService_OnlyOwnerMayChange(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	created, err := th.env.Comments.Create(ctx, th.reader, th.post.ID, "Mine")
	require.NoError(t, err)

	for _, other := range []comment.Principal{th.stranger, th.author} {
		_, err := th.env.Comments.Update(ctx, other, created.ID, "Hijacked")
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden), "got %v", err)

		err = th.env.Comments.Delete(ctx, other, created.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden), "got %v", err)
	}

	updated, err := th.env.Comments.Update(ctx, th.reader, created.ID, "Still mine")
	require.NoError(t, err)
	assert.Equal(t, "Still mine", updated.Content)
}

/*
TestService_DeleteRemovesThread verifies deleting a comment removes its replies and every mirror of them.
*/
func TestService_DeleteRemovesThread(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	top, err := th.env.Comments.Create(ctx, th.reader, th.post.ID, "Question")
	require.NoError(t, err)
	answer, err := th.env.Comments.Reply(ctx, th.author, top.ID, "Answer")
	require.NoError(t, err)
	followUp, err := th.env.Comments.Reply(ctx, th.stranger, answer.ID, "Follow-up")
	require.NoError(t, err)
	assert.Equal(t, th.post.ID, followUp.BlogID)

	replies, err := th.env.Comments.Replies(ctx, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, answer.ID, replies[0].ID)

	require.NoError(t, th.env.Comments.Delete(ctx, th.reader, top.ID))

	for _, id := range []string{top.ID, answer.ID, followUp.ID} {
		_, err := th.env.Comments.Get(ctx, id)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "comment %s", id)
	}

	post, err := th.env.Blogs.Get(ctx, th.post.ID)
	require.NoError(t, err)
	assert.Empty(t, post.Comments)

	for _, id := range []string{th.reader.ID, th.stranger.ID} {
		viewer, err := th.env.Viewers.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, viewer.Comments)
	}

	author, err := th.env.Authors.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, author.Comments)
}

/*
TestService_Likes verifies toggling is reversible and replacing rejects repeats.
*/
func TestService_Likes(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	created, err := th.env.Comments.Create(ctx, th.reader, th.post.ID, "Like me")
	require.NoError(t, err)

	liked, ok, err := th.env.Comments.ToggleLike(ctx, created.ID, th.stranger.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, liked.Likes.Has(th.stranger.ID))

	_, ok, err = th.env.Comments.ToggleLike(ctx, created.ID, th.stranger.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = th.env.Comments.ReplaceLikes(ctx, created.ID, []string{th.reader.ID, th.reader.ID})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateLike), "got %v", err)

	replaced, err := th.env.Comments.ReplaceLikes(ctx, created.ID, []string{th.reader.ID, th.stranger.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Likes.Len())
}
