// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/ctxutil"
	"github.com/taibuivan/quill/internal/platform/sec"
)

/*
TestGetLogger verifies the request logger wins and the fallback keeps the request ID.
*/
func TestGetLogger(t *testing.T) {
	var buffer bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buffer, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	ctx := ctxutil.WithRequestID(context.Background(), "req-7")
	assert.Equal(t, "req-7", ctxutil.GetRequestID(ctx))
	assert.Empty(t, ctxutil.GetRequestID(context.Background()))

	// ── 1. No request logger: default logger tagged with the request ID ──
	ctxutil.GetLogger(ctx).Info("blog_viewed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "req-7", line["request_id"])

	// ── 2. Request logger attached ──
	requestLogger := slog.New(slog.DiscardHandler)
	assert.Same(t, requestLogger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, requestLogger)))
}

/*
TestGetPrincipal verifies the token role selects the document acting for the caller.
*/
func TestGetPrincipal(t *testing.T) {
	tests := []struct {
		name     string
		claims   *sec.AuthClaims
		want     relation.Ref
		wantCode string
	}{
		{name: "Author", claims: &sec.AuthClaims{UserID: "a1", Role: string(sec.RoleAuthor)}, want: relation.Ref{Kind: relation.KindAuthor, ID: "a1"}},
		{name: "Viewer", claims: &sec.AuthClaims{UserID: "v1", Role: string(sec.RoleViewer)}, want: relation.Ref{Kind: relation.KindViewer, ID: "v1"}},
		{name: "Anonymous", wantCode: apperr.CodeUnauthorized},
		{name: "Unknown role", claims: &sec.AuthClaims{UserID: "x", Role: "robot"}, wantCode: apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.claims != nil {
				ctx = ctxutil.WithClaims(ctx, tt.claims)
				assert.Same(t, tt.claims, ctxutil.GetClaims(ctx))
			}

			principal, err := ctxutil.GetPrincipal(ctx)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, principal)
		})
	}
}
