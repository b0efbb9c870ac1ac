// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/pkg/query"
)

// Handler exposes categories over HTTP.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates a category [Handler]. maxBytes bounds image uploads.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes mounts the category endpoints. Reads are public; writes need the author.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/with-published-blogs", handler.listWithPublishedBlogs)
	router.Get("/with-latest-blogs", handler.listWithLatestBlogs)
	router.Get("/{id}", handler.getCategory)

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Post("/", handler.createCategory)
		author.Put("/{id}", handler.updateCategory)
		author.Put("/{id}/image", handler.updateImage)
		author.Delete("/{id}", handler.deleteCategory)
	})

	return router
}

type updateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listWithPublishedBlogs(writer http.ResponseWriter, request *http.Request) {
	listings, err := handler.service.ListWithPublishedBlogs(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listings)
}

/*
GET /api/v1/categories/with-latest-blogs.

Request:
  - limit: int (blogs per category, default 3, max 20)

Response:
  - 200: []Listing
*/
func (handler *Handler) listWithLatestBlogs(writer http.ResponseWriter, request *http.Request) {
	limit := query.Int(request.URL.Query().Get("limit"), DefaultLatestBlogs)

	listings, err := handler.service.ListWithLatestBlogs(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listings)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
POST /api/v1/categories.

Request (multipart):
  - name: string
  - description: string
  - image: file, or image_file: existing image ID (optional)

Response:
  - 201: Category
  - 400: validation error or unknown image
  - 409: name already taken
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	choice, err := imagefile.ChoiceFromRequest(writer, request, handler.maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), CreateInput{
		Name:        request.FormValue(FieldName),
		Description: request.FormValue(FieldDescription),
		Image:       choice,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input.Name, input.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
	choice, err := imagefile.ChoiceFromRequest(writer, request, handler.maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateImage(request.Context(), requestutil.ID(request, "id"), choice)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
DELETE /api/v1/categories/{id}.

Response:
  - 204: deleted
  - 400: PRECONDITION_FAILED while blogs still belong to the category
  - 404: category not found
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
