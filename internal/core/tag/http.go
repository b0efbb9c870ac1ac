// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
)

// Handler exposes tags over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the tag endpoints. Reads are public; writes need the author.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTags)
	router.Get("/{id}", handler.getTag)

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Post("/", handler.createTag)
		author.Put("/{id}", handler.updateTag)
		author.Delete("/{id}", handler.deleteTag)
	})

	return router
}

type tagRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

/*
POST /api/v1/tags.

Response:
  - 201: Tag
  - 400: validation error
  - 409: name already taken
*/
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input tagRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Create(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tag)
}

func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	var input tagRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

/*
DELETE /api/v1/tags/{id}.

Response:
  - 204: deleted
  - 400: PRECONDITION_FAILED while blogs still carry the tag
  - 404: tag not found
*/
func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
