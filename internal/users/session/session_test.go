// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/testutil/fixture"
)

/*
TestService_IssueAndVerify verifies tokens carry the principal and the per-role lifetime.
*/
func TestService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	token, err := env.Sessions.Issue("viewer-1", "reader", sec.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(time.Hour/time.Second), token.ExpiresIn)

	claims, err := env.Sessions.VerifyToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "viewer-1", claims.UserID)
	assert.Equal(t, sec.RoleViewer, claims.Principal())

	_, err = env.Sessions.VerifyToken(ctx, token.AccessToken+"x")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	_, err = env.Sessions.Issue("someone", "someone", sec.UserRole("admin"))
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal), "got %v", err)
}

/*
TestService_Revoke verifies a revoked token is rejected while others stay valid.
*/
func TestService_Revoke(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	revoked, err := env.Sessions.Issue("author-1", "jane", sec.RoleAuthor)
	require.NoError(t, err)
	kept, err := env.Sessions.Issue("author-1", "jane", sec.RoleAuthor)
	require.NoError(t, err)

	claims, err := env.Sessions.VerifyToken(ctx, revoked.AccessToken)
	require.NoError(t, err)
	require.NoError(t, env.Sessions.Revoke(ctx, claims))

	_, err = env.Sessions.VerifyToken(ctx, revoked.AccessToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	_, err = env.Sessions.VerifyToken(ctx, kept.AccessToken)
	assert.NoError(t, err)
}

/*
TestService_RevocationStoreDown verifies tokens are refused when revocations cannot be checked.
*/
func TestService_RevocationStoreDown(t *testing.T) {
	ctx := context.Background()
	env := fixture.New(t)

	token, err := env.Sessions.Issue("viewer-1", "reader", sec.RoleViewer)
	require.NoError(t, err)

	env.Revocations.Err = errors.New("redis: connection refused")

	_, err = env.Sessions.VerifyToken(ctx, token.AccessToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnavailable), "got %v", err)
}
