// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/quill")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/private.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("S3_BUCKET", "quill-images")
}

/*
TestLoad_Defaults verifies default values when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 48*time.Hour, cfg.AuthorTokenTTL)
	assert.Equal(t, 120*time.Hour, cfg.ViewerTokenTTL)
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "@every 1h", cfg.ReconcileSchedule)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_DotenvFile verifies .env values fill gaps without overriding the environment.
*/
func TestLoad_DotenvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=7000\nALLOWED_ORIGINS=https://a.dev,https://b.dev\nENVIRONMENT=production\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ALLOWED_ORIGINS")
		os.Unsetenv("ENVIRONMENT")
	})

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

/*
TestLoad_MissingRequired verifies that a missing required variable fails fast.
*/
func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
