// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and every domain
handler into a runnable [http.Server].

Architecture:

  - This package is the outermost presentation layer.
  - It is the composition root for the chi router.
  - Domain packages expose Routes(); only this package decides where they mount.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/platform/config"
	"github.com/taibuivan/quill/internal/platform/constants"
	"github.com/taibuivan/quill/internal/platform/middleware"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/session"
	"github.com/taibuivan/quill/internal/users/viewer"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets of every domain.
type Handlers struct {
	// Liveness is the /health handler and answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler and answers 200 when every dependency responds.
	Readiness http.HandlerFunc

	Blog     *blog.Handler
	Category *category.Handler
	Tag      *tag.Handler
	Image    *imagefile.Handler
	Comment  *comment.Handler

	Author  *author.Handler
	Viewer  *viewer.Handler
	Session *session.Handler
}

// # Server Initialization

// NewServer builds the router with the full middleware chain and mounts every route group.
//
// ctx bounds background work owned by the middleware, such as rate-limiter eviction.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.IsDevelopment()))
	r.Use(limiter.Middleware)
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/blogs", h.Blog.Routes())
		api.Mount("/categories", h.Category.Routes())
		api.Mount("/tags", h.Tag.Routes())
		api.Mount("/images", h.Image.Routes())
		api.Mount("/comments", h.Comment.Routes())

		api.Mount("/author", h.Author.Routes())
		api.Mount("/viewers", h.Viewer.Routes())
		api.Mount("/auth", h.Session.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root router, for tests that drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
