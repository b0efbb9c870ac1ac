// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/testutil/fixture"
	"github.com/taibuivan/quill/internal/users/viewer"
)

/*
TestService_Register verifies username and password rules and case-insensitive uniqueness.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	env.Viewer(t, "reader")

	tests := []struct {
		name     string
		input    viewer.RegisterInput
		wantCode string
	}{
		{name: "Valid", input: viewer.RegisterInput{Name: "Ann", Username: "ann2024", Password: "12345678"}},
		{name: "Username too short", input: viewer.RegisterInput{Name: "Ann", Username: "ann", Password: "12345678"}, wantCode: apperr.CodeValidation},
		{name: "Username too long", input: viewer.RegisterInput{Name: "Ann", Username: "abcdefghijklmnopqrstu", Password: "12345678"}, wantCode: apperr.CodeValidation},
		{name: "Username with underscore", input: viewer.RegisterInput{Name: "Ann", Username: "ann_b", Password: "12345678"}, wantCode: apperr.CodeValidation},
		{name: "Password too short", input: viewer.RegisterInput{Name: "Ann", Username: "annb", Password: "1234567"}, wantCode: apperr.CodeValidation},
		{name: "Missing name", input: viewer.RegisterInput{Username: "annc", Password: "12345678"}, wantCode: apperr.CodeValidation},
		{name: "Taken in other case", input: viewer.RegisterInput{Name: "Ann", Username: "READER", Password: "12345678"}, wantCode: apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registered, err := env.Viewers.Register(ctx, tt.input)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, registered.Username)
			assert.Empty(t, registered.Comments)
		})
	}
}

/*
TestService_Passwords verifies confirming and changing a password, and signing in with the new one.
*/
func TestService_Passwords(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	reader := env.Viewer(t, "reader")

	require.NoError(t, env.Viewers.ConfirmPassword(ctx, reader.ID, "reader-pass"))

	err := env.Viewers.ConfirmPassword(ctx, reader.ID, "wrong-pass")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	err = env.Viewers.ChangePassword(ctx, reader.ID, "wrong-pass", "brand-new-pass")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	err = env.Viewers.ChangePassword(ctx, reader.ID, "reader-pass", "short")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)

	require.NoError(t, env.Viewers.ChangePassword(ctx, reader.ID, "reader-pass", "brand-new-pass"))

	_, err = env.Viewers.Login(ctx, "reader", "reader-pass")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	login, err := env.Viewers.Login(ctx, "Reader", "brand-new-pass")
	require.NoError(t, err)
	assert.Equal(t, reader.ID, login.Viewer.ID)
	assert.Equal(t, "Bearer", login.Token.TokenType)
}

/*
TestService_Update verifies profile edits and that a taken username is refused.
*/
func TestService_Update(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	reader := env.Viewer(t, "reader")
	env.Viewer(t, "other")

	name := "Renamed"
	username := "reader2"
	updated, err := env.Viewers.Update(ctx, reader.ID, viewer.UpdateInput{Name: &name, Username: &username})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "reader2", updated.Username)

	// Keeping one's own username is allowed
	_, err = env.Viewers.Update(ctx, reader.ID, viewer.UpdateInput{Username: &username})
	require.NoError(t, err)

	taken := "OTHER"
	_, err = env.Viewers.Update(ctx, reader.ID, viewer.UpdateInput{Username: &taken})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
}

/*
TestService_Delete verifies the account is removed, its token revoked, and its comments kept.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)
	writer := env.Author(t)
	reader := env.Viewer(t, "reader")
	post := env.Blog(t, writer.ID, "Commented", nil, nil, blog.ActionPublish)

	written, err := env.Comments.Create(ctx, comment.Principal{Kind: relation.KindViewer, ID: reader.ID}, post.ID, "Bye")
	require.NoError(t, err)

	login, err := env.Viewers.Login(ctx, "reader", "reader-pass")
	require.NoError(t, err)
	claims, err := env.Sessions.VerifyToken(ctx, login.Token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, env.Viewers.Delete(ctx, claims))

	_, err = env.Viewers.Get(ctx, reader.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)

	_, err = env.Sessions.VerifyToken(ctx, login.Token.AccessToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	kept, err := env.Comments.Get(ctx, written.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bye", kept.Content)

	// A deleted account cannot keep commenting with an old identity
	_, err = env.Comments.Create(ctx, comment.Principal{Kind: relation.KindViewer, ID: reader.ID}, post.ID, "Ghost")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)
}
