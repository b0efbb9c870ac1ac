// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
)

/*
TestService_PublishState verifies save keeps a draft, publish stamps the date once, and private blogs stay hidden.
*/
func TestService_PublishState(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	draft := env.Blog(t, writer.ID, "Work in progress", nil, nil, blog.ActionSave)
	assert.False(t, draft.IsPublished)
	assert.Nil(t, draft.PublishedAt)

	_, err := env.Blogs.GetPublished(ctx, draft.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)

	published, err := env.Blogs.Update(ctx, draft.ID, blog.UpdateInput{}, blog.ActionPublish)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	stamp := *published.PublishedAt

	// Unpublish and publish again: the first date is kept
	_, err = env.Blogs.Update(ctx, draft.ID, blog.UpdateInput{}, blog.ActionSave)
	require.NoError(t, err)
	republished, err := env.Blogs.Update(ctx, draft.ID, blog.UpdateInput{}, blog.ActionPublish)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(*republished.PublishedAt))

	bySlug, err := env.Blogs.GetPublished(ctx, republished.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, bySlug.ID)

	private := true
	_, err = env.Blogs.Update(ctx, draft.ID, blog.UpdateInput{IsPrivate: &private}, blog.ActionPublish)
	require.NoError(t, err)

	_, err = env.Blogs.GetPublished(ctx, draft.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)

	// The author still sees it
	_, err = env.Blogs.Get(ctx, draft.ID)
	assert.NoError(t, err)
}

/*
TestService_SlugsStayUnique verifies a clashing title gets a suffixed slug and retitling keeps its own slug.
*/
func TestService_SlugsStayUnique(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	first := env.Blog(t, writer.ID, "Hello, World!", nil, nil, blog.ActionPublish)
	second := env.Blog(t, writer.ID, "Hello world", nil, nil, blog.ActionPublish)

	assert.Equal(t, "hello-world", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "hello-world-"))

	title := "Hello World"
	retitled, err := env.Blogs.Update(ctx, first.ID, blog.UpdateInput{Title: &title}, blog.ActionPublish)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", retitled.Slug)
}

/*
TestService_Create verifies input validation before anything is stored.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	tests := []struct {
		name  string
		input blog.CreateInput
	}{
		{name: "Missing title", input: blog.CreateInput{Content: "<p>x</p>", Image: imagefile.Choice{Upload: fixture.NewUpload(t)}}},
		{name: "Script-only content", input: blog.CreateInput{Title: "x", Content: "<script>alert(1)</script>", Image: imagefile.Choice{Upload: fixture.NewUpload(t)}}},
		{name: "Missing image", input: blog.CreateInput{Title: "x", Content: "<p>x</p>"}},
		{name: "Malformed tag", input: blog.CreateInput{Title: "x", Content: "<p>x</p>", Tags: []string{"nope"}, Image: imagefile.Choice{Upload: fixture.NewUpload(t)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Blogs.Create(ctx, writer.ID, tt.input, blog.ActionPublish)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}

	images, err := env.Images.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, images)
}

/*
TestService_Listing verifies published listings, filters and counters, and that writes refresh the cached counters.
*/
func TestService_Listing(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	travel := env.Category(t, "Travel")
	asia := env.Tag(t, "asia")

	env.Blog(t, writer.ID, "Categorized", &travel.ID, []string{asia.ID}, blog.ActionPublish)
	loose := env.Blog(t, writer.ID, "Loose", nil, nil, blog.ActionPublish)
	env.Blog(t, writer.ID, "Draft", &travel.ID, nil, blog.ActionSave)

	tests := []struct {
		name   string
		filter blog.Filter
		want   int
	}{
		{name: "All published", want: 2},
		{name: "By category", filter: blog.Filter{CategoryID: travel.ID}, want: 1},
		{name: "By tag", filter: blog.Filter{TagID: asia.ID}, want: 1},
		{name: "Uncategorized", filter: blog.Filter{Uncategorized: true}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blogs, total, err := env.Blogs.ListPublished(ctx, tt.filter, pageOf(10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, blogs, tt.want)
		})
	}

	all, total, err := env.Blogs.List(ctx, blog.Filter{}, pageOf(2))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 2)

	published, err := env.Blogs.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, published)

	uncategorized, err := env.Blogs.CountUncategorizedPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, uncategorized)

	require.NoError(t, env.Blogs.Delete(ctx, loose.ID))

	published, err = env.Blogs.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	uncategorized, err = env.Blogs.CountUncategorizedPublished(ctx)
	require.NoError(t, err)
	assert.Zero(t, uncategorized)
}

/*
TestService_UpdateImage verifies the blog's image reference moves and a fresh upload replaces the old one.
*/
func TestService_UpdateImage(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	post := env.Blog(t, writer.ID, "Covered", nil, nil, blog.ActionPublish)
	previous := *post.ImageFileID

	updated, err := env.Blogs.UpdateImage(ctx, post.ID, imagefile.Choice{Upload: fixture.NewUpload(t)})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageFileID)
	assert.NotEqual(t, previous, *updated.ImageFileID)

	old, err := env.Images.Get(ctx, previous)
	require.NoError(t, err)
	assert.Empty(t, old.ReferencedDocs)

	current, err := env.Images.Get(ctx, *updated.ImageFileID)
	require.NoError(t, err)
	assert.Len(t, current.ReferencedDocs, 1)
}

/*
TestParseAction verifies only save and publish are accepted.
*/
func TestParseAction(t *testing.T) {
	for _, raw := range []string{"save", "publish"} {
		action, err := blog.ParseAction(raw)
		require.NoError(t, err)
		assert.Equal(t, blog.Action(raw), action)
	}

	_, err := blog.ParseAction("archive")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
}

/*
TestService_MalformedIDs verifies a non-UUID blog ID is rejected as invalid input before any lookup or write.
*/
func TestService_MalformedIDs(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)
	reader := env.Viewer(t, "reader")
	post := env.Blog(t, writer.ID, "Untouched", nil, nil, blog.ActionPublish)

	tests := []struct {
		name string
		call func(id string) error
	}{
		{name: "Get", call: func(id string) error {
			_, err := env.Blogs.Get(ctx, id)
			return err
		}},
		{name: "Update", call: func(id string) error {
			_, err := env.Blogs.Update(ctx, id, blog.UpdateInput{}, blog.ActionSave)
			return err
		}},
		{name: "UpdateImage", call: func(id string) error {
			_, err := env.Blogs.UpdateImage(ctx, id, imagefile.Choice{Upload: fixture.NewUpload(t)})
			return err
		}},
		{name: "Delete", call: func(id string) error {
			return env.Blogs.Delete(ctx, id)
		}},
		{name: "ToggleLike", call: func(id string) error {
			_, _, err := env.Blogs.ToggleLike(ctx, id, reader.ID)
			return err
		}},
		{name: "ReplaceLikes", call: func(id string) error {
			_, err := env.Blogs.ReplaceLikes(ctx, id, []string{reader.ID})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range []string{"not-a-uuid", "", strings.ToUpper(post.ID) + "x"} {
				err := tt.call(id)
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "id %q: got %v", id, err)
			}
		})
	}

	// Nothing was written along the way
	stored, err := env.Blogs.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
	assert.True(t, stored.IsPublished)
}
