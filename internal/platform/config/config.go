// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

An optional .env file is loaded first (development convenience), then
'caarlos0/env' maps the process environment into a strongly-typed struct.
Variables already present in the environment always win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Quill API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string        `env:"REDIS_URL,required"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Token signing keys and lifetimes
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	AuthorTokenTTL time.Duration `env:"AUTHOR_TOKEN_TTL" envDefault:"48h"`
	ViewerTokenTTL time.Duration `env:"VIEWER_TOKEN_TTL" envDefault:"120h"`

	// Object Storage (S3-compatible) for image binaries
	S3Bucket    string `env:"S3_BUCKET,required"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// UploadMaxBytes caps a single image upload.
	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// ReconcileSchedule is the cron spec of the back-reference repair job. Empty disables it.
	ReconcileSchedule string `env:"RECONCILE_SCHEDULE" envDefault:"@every 1h"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}

	// A missing .env is normal outside development
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read dotenv file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("config: UPLOAD_MAX_BYTES must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
