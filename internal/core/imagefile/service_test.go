// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imagefile_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
)

/*
TestService_Upload verifies accepted images are stored with their dimensions and bad ones are rejected.
*/
func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	image, err := env.Images.Upload(ctx, imagefile.Upload{
		FileName: `C:\photos\beach.png`,
		Data:     fixture.PNG(t, 16, 9),
		Credit:   imagefile.Credit{AuthorName: " Ana ", AuthorURL: "https://example.com/ana"},
	})
	require.NoError(t, err)

	assert.Equal(t, "beach.png", image.FileName)
	assert.Equal(t, imagefile.TypePNG, image.FileType)
	assert.Equal(t, 16, image.Width)
	assert.Equal(t, 9, image.Height)
	assert.Equal(t, "Ana", image.Credit.AuthorName)
	assert.Empty(t, image.ReferencedDocs)
	assert.True(t, strings.HasSuffix(image.ObjectKey, ".png"))
	assert.True(t, env.Objects.Has(image.ObjectKey))

	tests := []struct {
		name   string
		upload imagefile.Upload
	}{
		{name: "Empty", upload: imagefile.Upload{FileName: "empty.png"}},
		{name: "Not an image", upload: imagefile.Upload{FileName: "notes.png", Data: []byte("plain text pretending")}},
		{name: "Too large", upload: imagefile.Upload{FileName: "huge.png", Data: make([]byte, fixture.MaxUpload+1)}},
		{
			name:   "Truncated",
			upload: imagefile.Upload{FileName: "cut.png", Data: fixture.PNG(t, 8, 8)[:40]},
		},
		{
			name:   "Bad credit URL",
			upload: imagefile.Upload{FileName: "ok.png", Data: fixture.PNG(t, 2, 2), Credit: imagefile.Credit{SourceURL: "not a url"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Images.Upload(ctx, tt.upload)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}

	images, err := env.Images.List(ctx)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

/*
TestService_Source verifies the stored binary is served back with its content type.
*/
func TestService_Source(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	data := fixture.PNG(t, 3, 3)

	image, err := env.Images.Upload(ctx, imagefile.Upload{FileName: "dot.png", Data: data})
	require.NoError(t, err)

	_, object, err := env.Images.Source(ctx, image.ID)
	require.NoError(t, err)
	defer object.Body.Close()

	body, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, data, body)
	assert.Equal(t, imagefile.TypePNG, object.ContentType)
}

/*
TestService_DeleteReportsOrphanedBinary verifies a failed binary delete surfaces as a partial consistency error after the document is gone.
*/
func TestService_DeleteReportsOrphanedBinary(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	image := env.Image(t)

	env.Objects.FailDelete = errors.New("bucket unavailable")

	err := env.Images.Delete(ctx, image.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodePartialConsistency), "got %v", err)

	_, err = env.Images.Get(ctx, image.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
	assert.True(t, env.Objects.Has(image.ObjectKey))
}

/*
TestValidateChoice verifies the upload-or-existing rule.
*/
func TestValidateChoice(t *testing.T) {
	existing := "0190d7c8-0000-7000-8000-000000000000"
	malformed := "not-a-uuid"
	upload := &imagefile.Upload{FileName: "a.png"}

	tests := []struct {
		name     string
		choice   imagefile.Choice
		required bool
		wantErr  bool
	}{
		{name: "Optional and empty", choice: imagefile.Choice{}},
		{name: "Required and empty", choice: imagefile.Choice{}, required: true, wantErr: true},
		{name: "Existing", choice: imagefile.Choice{ExistingID: &existing}, required: true},
		{name: "Upload", choice: imagefile.Choice{Upload: upload}, required: true},
		{name: "Both", choice: imagefile.Choice{ExistingID: &existing, Upload: upload}, wantErr: true},
		{name: "Malformed ID", choice: imagefile.Choice{ExistingID: &malformed}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := imagefile.ValidateChoice(tt.choice, tt.required)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
