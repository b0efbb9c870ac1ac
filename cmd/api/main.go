// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Quill blog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL, Redis and the image bucket.
//  4. Run database migrations (idempotent).
//  5. Wire repositories, services and HTTP handlers.
//  6. Schedule the back-reference reconciler.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/quill/internal/api"
	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/platform/cache"
	"github.com/taibuivan/quill/internal/platform/config"
	"github.com/taibuivan/quill/internal/platform/constants"
	"github.com/taibuivan/quill/internal/platform/migration"
	"github.com/taibuivan/quill/internal/platform/objectstore"
	pgstore "github.com/taibuivan/quill/internal/platform/postgres"
	redisstore "github.com/taibuivan/quill/internal/platform/redis"
	"github.com/taibuivan/quill/internal/platform/scheduler"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/internal/users/viewer"
)

// reconcileConcurrency bounds how many owners the reconciler repairs at once.
const reconcileConcurrency = 4

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Infrastructure ─────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	bucket, err := objectstore.NewS3(startupCtx, objectstore.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}, log)
	must(log, err, "initialize object store")

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	tx := pgstore.NewTxManager(pool)
	references := relation.NewPostgresStore(pool)
	syncer := relation.NewSyncer(references, log)

	sessionService := session.NewService(tokens, session.NewRedisRevocations(rdb), cfg.AuthorTokenTTL, cfg.ViewerTokenTTL, log)

	imageService := imagefile.NewService(imagefile.NewPostgresRepository(pool), bucket, syncer, tx, log, cfg.UploadMaxBytes)
	categoryService := category.NewService(category.NewPostgresRepository(pool), imageService, tx, log)
	tagService := tag.NewService(tag.NewPostgresRepository(pool), tx, log)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), syncer, tx, log)
	blogService := blog.NewService(blog.Config{
		Repository: blog.NewPostgresRepository(pool),
		Syncer:     syncer,
		Images:     imageService,
		Comments:   commentService,
		Cache:      cache.NewRedis(rdb, "quill:"),
		CacheTTL:   cfg.CacheTTL,
		Tx:         tx,
		Logger:     log,
	})
	authorService := author.NewService(author.NewPostgresRepository(pool), imageService, sessionService, tx, log)
	viewerService := viewer.NewService(viewer.NewPostgresRepository(pool), sessionService, tx, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		Cache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		Storage:  bucket.Ping,
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Blog:      blog.NewHandler(blogService, cfg.UploadMaxBytes),
		Category:  category.NewHandler(categoryService, cfg.UploadMaxBytes),
		Tag:       tag.NewHandler(tagService),
		Image:     imagefile.NewHandler(imageService, cfg.UploadMaxBytes),
		Comment:   comment.NewHandler(commentService),
		Author:    author.NewHandler(authorService, cfg.UploadMaxBytes),
		Viewer:    viewer.NewHandler(viewerService),
		Session:   session.NewHandler(sessionService),
	}

	// ── 6. Background Jobs ────────────────────────────────────────────────
	jobs := scheduler.New(log)
	if cfg.ReconcileSchedule != "" {
		reconciler := relation.NewReconciler(references, syncer, tx, log, relation.Workers(reconcileConcurrency))
		must(log, jobs.Add("relation_reconcile", cfg.ReconcileSchedule, func(ctx context.Context) error {
			_, err := reconciler.Run(ctx)
			return err
		}), "schedule reconciler")
	}
	jobs.Start()

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessionService, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	jobs.Stop(stopCtx)

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the app name and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "quill"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
