// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
)

func categoryRef(id string) string {
	return relation.ImageReferences.ValueFor(relation.Ref{Kind: relation.KindCategory, ID: id})
}

/*
TestService_Create verifies validation, name uniqueness and the image back-reference.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	created := env.Category(t, "  Travel ")
	assert.Equal(t, "Travel", created.Name)
	assert.Equal(t, "travel", created.Slug)
	require.NotNil(t, created.ImageFileID)

	image, err := env.Images.Get(ctx, *created.ImageFileID)
	require.NoError(t, err)
	assert.Equal(t, []string{categoryRef(created.ID)}, image.ReferencedDocs)

	// Without an image
	bare, err := env.Categories.Create(ctx, category.CreateInput{Name: "Food"})
	require.NoError(t, err)
	assert.Nil(t, bare.ImageFileID)

	tests := []struct {
		name     string
		input    category.CreateInput
		wantCode string
	}{
		{name: "Empty name", input: category.CreateInput{Name: " "}, wantCode: apperr.CodeValidation},
		{name: "Taken name", input: category.CreateInput{Name: "travel"}, wantCode: apperr.CodeConflict},
		{
			name: "Both image forms",
			input: category.CreateInput{Name: "Music", Image: imagefile.Choice{
				ExistingID: created.ImageFileID,
				Upload:     fixture.NewUpload(t),
			}},
			wantCode: apperr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Categories.Create(ctx, tt.input)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

/*
TestService_UpdateImage verifies the image reference moves from the old image to the new one.
*/
func TestService_UpdateImage(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	travel := env.Category(t, "Travel")
	previous := *travel.ImageFileID
	replacement := env.Image(t)

	updated, err := env.Categories.UpdateImage(ctx, travel.ID, imagefile.Choice{ExistingID: &replacement.ID})
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, *updated.ImageFileID)

	old, err := env.Images.Get(ctx, previous)
	require.NoError(t, err)
	assert.Empty(t, old.ReferencedDocs)

	current, err := env.Images.Get(ctx, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{categoryRef(travel.ID)}, current.ReferencedDocs)

	_, err = env.Categories.UpdateImage(ctx, travel.ID, imagefile.Choice{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
}

/*
TestService_Listings verifies only categories with public blogs are listed, newest first within each.
*/
func TestService_Listings(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)

	travel := env.Category(t, "Travel")
	food := env.Category(t, "Food")
	env.Category(t, "Empty")

	first := env.Blog(t, writer.ID, "First trip", &travel.ID, nil, blog.ActionPublish)
	second := env.Blog(t, writer.ID, "Second trip", &travel.ID, nil, blog.ActionPublish)
	env.Blog(t, writer.ID, "Draft recipe", &food.ID, nil, blog.ActionSave)

	listings, err := env.Categories.ListWithPublishedBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, travel.ID, listings[0].ID)
	assert.Equal(t, 2, listings[0].PublishedBlogs)

	latest, err := env.Categories.ListWithLatestBlogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Len(t, latest[0].LatestBlogs, 1)
	assert.Contains(t, []string{first.ID, second.ID}, latest[0].LatestBlogs[0].ID)
}

/*
TestService_Delete verifies an empty category is removed and its image released.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	travel := env.Category(t, "Travel")
	require.NoError(t, env.Categories.Delete(ctx, travel.ID))

	image, err := env.Images.Get(ctx, *travel.ImageFileID)
	require.NoError(t, err)
	assert.Empty(t, image.ReferencedDocs)

	err = env.Categories.Delete(ctx, travel.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
}

/*
TestService_MalformedIDs verifies a non-UUID category ID is invalid input rather than a missing category.
*/
func TestService_MalformedIDs(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	travel := env.Category(t, "Travel")

	tests := []struct {
		name string
		call func(id string) error
	}{
		{name: "Get", call: func(id string) error {
			_, err := env.Categories.Get(ctx, id)
			return err
		}},
		{name: "Update", call: func(id string) error {
			_, err := env.Categories.Update(ctx, id, "Renamed", "")
			return err
		}},
		{name: "UpdateImage", call: func(id string) error {
			_, err := env.Categories.UpdateImage(ctx, id, imagefile.Choice{Upload: fixture.NewUpload(t)})
			return err
		}},
		{name: "Delete", call: func(id string) error {
			return env.Categories.Delete(ctx, id)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call("zzz")
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}

	stored, err := env.Categories.Get(ctx, travel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", stored.Name)
}
