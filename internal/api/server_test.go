// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/api"
	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/platform/config"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/testutil/fixture"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/internal/users/viewer"
)

func newServer(t *testing.T, env *fixture.Env, deps api.HealthDependencies) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "test",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	liveness, readiness := api.NewHealthHandlers(deps, fixture.Logger())
	server := api.NewServer(ctx, cfg, fixture.Logger(), env.Sessions, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Blog:      blog.NewHandler(env.Blogs, fixture.MaxUpload),
		Category:  category.NewHandler(env.Categories, fixture.MaxUpload),
		Tag:       tag.NewHandler(env.Tags),
		Image:     imagefile.NewHandler(env.Images, fixture.MaxUpload),
		Comment:   comment.NewHandler(env.Comments),
		Author:    author.NewHandler(env.Authors, fixture.MaxUpload),
		Viewer:    viewer.NewHandler(env.Viewers),
		Session:   session.NewHandler(env.Sessions),
	})
	return server.Handler()
}

func call(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Health verifies liveness always answers and readiness reports a failing dependency.
*/
func TestServer_Health(t *testing.T) {
	env := fixture.New(t)
	handler := newServer(t, env, api.HealthDependencies{
		Database: func(context.Context) error { return nil },
		Storage:  func(context.Context) error { return errors.New("bucket unreachable") },
	})

	live := call(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, live.Code)

	ready := call(t, handler, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ready.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.Equal(t, "postgres", body.Data.Checks[0].Name)
	assert.True(t, body.Data.Checks[0].OK)
	assert.Equal(t, "object_store", body.Data.Checks[1].Name)
	assert.False(t, body.Data.Checks[1].OK)
}

/*
TestServer_RoleGuards verifies author-only routes against anonymous, viewer and author callers.
*/
func TestServer_RoleGuards(t *testing.T) {
	env := fixture.New(t)
	handler := newServer(t, env, api.HealthDependencies{})
	writer := env.Author(t)
	reader := env.Viewer(t, "reader")

	authorToken, err := env.Sessions.Issue(writer.ID, writer.Username, sec.RoleAuthor)
	require.NoError(t, err)
	viewerToken, err := env.Sessions.Issue(reader.ID, reader.Username, sec.RoleViewer)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "Anonymous", wantStatus: http.StatusUnauthorized},
		{name: "Malformed token", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "Viewer", token: viewerToken.AccessToken, wantStatus: http.StatusForbidden},
		{name: "Author", token: authorToken.AccessToken, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(t, handler, http.MethodPost, "/api/v1/tags", tt.token, map[string]string{"name": "golang"})
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}

	// Reads stay public
	recorder := call(t, handler, http.MethodGet, "/api/v1/tags", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestServer_LoginAndLogout verifies a viewer signs in over HTTP and the token stops working after logout.
*/
func TestServer_LoginAndLogout(t *testing.T) {
	env := fixture.New(t)
	handler := newServer(t, env, api.HealthDependencies{})
	env.Viewer(t, "reader")

	wrong := call(t, handler, http.MethodPost, "/api/v1/viewers/login", "", map[string]string{
		"username": "reader",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	login := call(t, handler, http.MethodPost, "/api/v1/viewers/login", "", map[string]string{
		"username": "reader",
		"password": "reader-pass",
	})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var body struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &body))
	token := body.Data.Token.AccessToken
	require.NotEmpty(t, token)

	logout := call(t, handler, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, logout.Code)

	again := call(t, handler, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, again.Code)
}

/*
TestServer_MalformedPathIDs verifies a non-UUID path ID answers 400 rather than 404.
*/
func TestServer_MalformedPathIDs(t *testing.T) {
	env := fixture.New(t)
	handler := newServer(t, env, api.HealthDependencies{})
	writer := env.Author(t)

	token, err := env.Sessions.Issue(writer.ID, writer.Username, sec.RoleAuthor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "Delete blog", method: http.MethodDelete, path: "/api/v1/blogs/not-a-uuid"},
		{name: "Delete category", method: http.MethodDelete, path: "/api/v1/categories/zzz"},
		{name: "Get tag", method: http.MethodGet, path: "/api/v1/tags/golang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(t, handler, tt.method, tt.path, token.AccessToken, nil)
			assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
		})
	}
}
