// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session issues access tokens to the author and to viewers, and
revokes them on logout or account deletion.

Tokens are stateless RS256 JWTs. Revocation stores the token ID in Redis
until the token would have expired anyway, and [Service.VerifyToken] rejects
any token found there.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
)

// Token is what a successful login returns.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Signer creates and checks signed tokens.
type Signer interface {
	GenerateAccessToken(userID, username string, role sec.UserRole, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Issuer is the part of [Service] the principal services use.
type Issuer interface {
	Issue(userID, username string, role sec.UserRole) (*Token, error)
	Revoke(ctx context.Context, claims *sec.AuthClaims) error
}

// Service issues, verifies and revokes access tokens.
type Service struct {
	signer      Signer
	revocations Revocations
	ttl         map[sec.UserRole]time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a session [Service] with a token lifetime per role.
func NewService(signer Signer, revocations Revocations, authorTTL, viewerTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		signer:      signer,
		revocations: revocations,
		ttl: map[sec.UserRole]time.Duration{
			sec.RoleAuthor: authorTTL,
			sec.RoleViewer: viewerTTL,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Issue signs a token for the principal with the lifetime configured for its role.
func (service *Service) Issue(userID, username string, role sec.UserRole) (*Token, error) {
	ttl, ok := service.ttl[role]
	if !ok {
		return nil, apperr.Internal(fmt.Errorf("session: no token lifetime for role %q", role))
	}

	signed, err := service.signer.GenerateAccessToken(userID, username, role, ttl)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl / time.Second),
		ExpiresAt:   service.now().Add(ttl).UTC(),
	}, nil
}

/*
VerifyToken checks the signature and expiry of raw and that it was not revoked.

A revocation store that cannot be reached fails the request rather than
letting a possibly revoked token through.

Returns:
  - *sec.AuthClaims: the verified claims
  - error: Unauthorized, or ServiceUnavailable when revocations cannot be read
*/
func (service *Service) VerifyToken(ctx context.Context, raw string) (*sec.AuthClaims, error) {
	claims, err := service.signer.VerifyToken(raw)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	revoked, err := service.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		service.logger.ErrorContext(ctx, "session_revocation_check_failed", slog.Any("error", err))
		return nil, apperr.ServiceUnavailable("Unable to verify token")
	}
	if revoked {
		return nil, apperr.Unauthorized("Token has been revoked")
	}

	return claims, nil
}

// Revoke rejects the token described by claims from now until it expires.
func (service *Service) Revoke(ctx context.Context, claims *sec.AuthClaims) error {
	ttl := claims.TimeToExpiry()
	if ttl <= 0 || claims.ID == "" {
		return nil
	}

	if err := service.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "session_revoked",
		slog.String("user_id", claims.UserID),
		slog.String("role", claims.Role),
	)
	return nil
}
