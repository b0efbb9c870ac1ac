// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
)

// Handler exposes logout.
type Handler struct {
	service *Service
}

// NewHandler creates a session [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts POST /logout for any signed-in principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(signedIn chi.Router) {
		signedIn.Use(middleware.RequireAuth)
		signedIn.Post("/logout", handler.logout)
	})

	return router
}

/*
POST /api/v1/auth/logout.

Revokes the bearer token used for this request.

Response:
  - 204: token revoked
  - 401: not signed in
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Revoke(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
