// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/quill/internal/platform/respond"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 3 * time.Second

// Check pings one dependency.
type Check func(ctx context.Context) error

// HealthDependencies holds the dependency checks behind /ready. Nil checks are skipped.
type HealthDependencies struct {
	// Database pings the PostgreSQL pool.
	Database Check

	// Cache pings Redis, which also holds token revocations.
	Cache Check

	// Storage checks that the image bucket is reachable.
	Storage Check
}

type healthHandler struct {
	checks []namedCheck
	logger *slog.Logger
}

type namedCheck struct {
	name  string
	check Check
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{logger: logger}
	for _, candidate := range []namedCheck{
		{name: "postgres", check: deps.Database},
		{name: "redis", check: deps.Cache},
		{name: "object_store", check: deps.Storage},
	} {
		if candidate.check != nil {
			handler.checks = append(handler.checks, candidate)
		}
	}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, dependency := range handler.checks {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := dependency.check(ctx)
		cancel()

		result := checkResult{Name: dependency.name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	body := map[string]any{"status": "ready", "checks": results}
	if !isSystemReady {
		body["status"] = "degraded"
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: body})
		return
	}
	respond.OK(writer, body)
}
