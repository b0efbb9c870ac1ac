// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip verifies that issued tokens verify with the same claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "quill.test")

	token, err := service.GenerateAccessToken("viewer-1", "reader", sec.RoleViewer, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "viewer-1", claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, sec.RoleViewer, claims.Principal())
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TimeToExpiry().Seconds(), 5)
}

/*
TestTokenService_Rejects verifies expired tokens and foreign issuers are refused.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "quill.test")

	expired, err := service.GenerateAccessToken("a", "author", sec.RoleAuthor, -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	other := newTokenService(t, "someone.else")
	foreign, err := other.GenerateAccessToken("a", "author", sec.RoleAuthor, time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role   sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{sec.RoleAuthor, sec.RoleViewer, true},
		{sec.RoleAuthor, sec.RoleAuthor, true},
		{sec.RoleViewer, sec.RoleAuthor, false},
		{sec.UserRole("admin"), sec.RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))
}
