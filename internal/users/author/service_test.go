// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/testutil/fixture"
	"github.com/taibuivan/quill/internal/users/author"
)

/*
TestService_Register verifies validation and that a second author is refused.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	tests := []struct {
		name  string
		input author.RegisterInput
	}{
		{name: "Missing name", input: author.RegisterInput{Email: "a@example.com", Username: "anna", Password: "long-enough"}},
		{name: "Bad email", input: author.RegisterInput{Name: "Anna", Email: "nope", Username: "anna", Password: "long-enough"}},
		{name: "Username with symbols", input: author.RegisterInput{Name: "Anna", Email: "a@example.com", Username: "an na!", Password: "long-enough"}},
		{name: "Short password", input: author.RegisterInput{Name: "Anna", Email: "a@example.com", Username: "anna", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Authors.Register(ctx, tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}

	registered := env.Author(t)
	assert.NotEqual(t, "correct-horse", registered.PasswordHash)
	assert.Empty(t, registered.Comments)

	_, err := env.Authors.Register(ctx, author.RegisterInput{
		Name: "Second", Email: "second@example.com", Username: "second", Password: "long-enough",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
}

/*
TestService_Login verifies the author signs in with username or email and gets an author token.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	_, err := env.Authors.Login(ctx, "jane", "correct-horse")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "no author yet, got %v", err)

	registered := env.Author(t)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  bool
	}{
		{name: "Username", login: "jane", password: "correct-horse"},
		{name: "Email in other case", login: "JANE@example.com", password: "correct-horse"},
		{name: "Wrong password", login: "jane", password: "battery-staple", wantErr: true},
		{name: "Unknown login", login: "john", password: "correct-horse", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			login, err := env.Authors.Login(ctx, tt.login, tt.password)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, login.Author.ID)

			claims, err := env.Sessions.VerifyToken(ctx, login.Token.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, sec.RoleAuthor, claims.Principal())
			assert.Equal(t, registered.ID, claims.UserID)
		})
	}
}

/*
TestService_UpdateProfile verifies name, bio and image changes, with the image mirrored.
*/
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	registered := env.Author(t)

	updated, err := env.Authors.Update(ctx, registered.ID, "Jane Q. Writer", "Writes <em>things</em>")
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Writer", updated.Name)
	assert.Equal(t, "Writes things", updated.Bio)

	_, err = env.Authors.Update(ctx, registered.ID, "", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)

	withImage, err := env.Authors.UpdateImage(ctx, registered.ID, imagefile.Choice{Upload: fixture.NewUpload(t)})
	require.NoError(t, err)
	require.NotNil(t, withImage.ImageFileID)

	image, err := env.Images.Get(ctx, *withImage.ImageFileID)
	require.NoError(t, err)
	owner := relation.ImageReferences.ValueFor(relation.Ref{Kind: relation.KindAuthor, ID: registered.ID})
	assert.Equal(t, []string{owner}, image.ReferencedDocs)

	fetched, err := env.Authors.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, withImage.ImageFileID, fetched.ImageFileID)
}
