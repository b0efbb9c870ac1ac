// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the request-scoped values Quill keeps in a
// [context.Context]: the request ID, the request logger and the caller's token.
//
// # Principals
//
// A token only carries a role. [GetPrincipal] turns it into the document that
// acts on the caller's behalf, an author or a viewer, so services can link
// comments and likes back to it.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/ctxkey"
	"github.com/taibuivan/quill/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the request ID assigned by the tracing middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a logger already tagged with request attributes.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger. Outside a request it falls back to
// the default logger, tagged with the request ID when one is present.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	if id := GetRequestID(ctx); id != "" {
		return slog.Default().With(slog.String("request_id", id))
	}
	return slog.Default()
}

// # Identity & Access

// WithClaims attaches the verified token of the calling author or viewer.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetClaims returns the verified token, or nil for anonymous requests.
func GetClaims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}

/*
GetPrincipal resolves the caller to the author or viewer document behind the token.

Returns:
  - relation.Ref: the caller as an author or viewer reference
  - error: Unauthorized for anonymous requests, Forbidden for a role that owns no documents
*/
func GetPrincipal(ctx context.Context) (relation.Ref, error) {
	claims := GetClaims(ctx)
	if claims == nil {
		return relation.Ref{}, apperr.Unauthorized("Authentication required")
	}

	switch claims.Principal() {
	case sec.RoleAuthor:
		return relation.Ref{Kind: relation.KindAuthor, ID: claims.UserID}, nil
	case sec.RoleViewer:
		return relation.Ref{Kind: relation.KindViewer, ID: claims.UserID}, nil
	default:
		return relation.Ref{}, apperr.Forbidden("Unknown role")
	}
}
