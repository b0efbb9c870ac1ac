// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/pkg/optional"
	"github.com/taibuivan/quill/pkg/pagination"
	"github.com/taibuivan/quill/pkg/query"
)

// Handler exposes blogs over HTTP.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates a blog [Handler]. maxBytes bounds image uploads.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes mounts the blog endpoints.
//
// Published reads are public. Likes need a signed-in viewer or the author.
// Everything else, including draft reads, is author-only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/published", handler.listPublished)
	router.Get("/published/total", handler.countPublished)
	router.Get("/published/uncategorized/total", handler.countUncategorized)
	router.Get("/published/{identifier}", handler.getPublished)

	router.Group(func(viewer chi.Router) {
		viewer.Use(middleware.RequireRole(sec.RoleViewer))

		viewer.Put("/{id}/likes/{userId}", handler.toggleLike)
	})

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Get("/", handler.listBlogs)
		author.Get("/{id}", handler.getBlog)
		author.Post("/{action}", handler.createBlog)
		author.Put("/{id}/image", handler.updateImage)
		author.Put("/{id}/likes", handler.replaceLikes)
		author.Put("/{id}/{action}", handler.updateBlog)
		author.Delete("/{id}", handler.deleteBlog)
	})

	return router
}

// # Payloads

type updateRequest struct {
	Title     *string                `json:"title"`
	Content   *string                `json:"content"`
	Category  optional.Field[string] `json:"category"`
	Tags      *[]string              `json:"tags"`
	IsPrivate *bool                  `json:"is_private"`
	Likes     *[]string              `json:"likes"`
}

type likesRequest struct {
	Likes []string `json:"likes"`
}

type likeResponse struct {
	Blog  *Blog `json:"blog"`
	Liked bool  `json:"liked"`
}

type totalResponse struct {
	Total int `json:"total"`
}

func filterFromRequest(request *http.Request) Filter {
	values := request.URL.Query()
	return Filter{
		CategoryID:    strings.TrimSpace(values.Get("category")),
		TagID:         strings.TrimSpace(values.Get("tag")),
		Uncategorized: query.Bool(values.Get("uncategorized"), false),
		Sort:          ParseSort(values.Get("sort")),
	}
}

// # Public reads

/*
GET /api/v1/blogs/published.

Request:
  - category, tag: optional ID filters
  - uncategorized: bool
  - sort: newest | oldest | title
  - page, limit: pagination

Response:
  - 200: []Blog with pagination meta
*/
func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	blogs, total, err := handler.service.ListPublished(request.Context(), filterFromRequest(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, blogs, pagination.NewMeta(page, total))
}

func (handler *Handler) countPublished(writer http.ResponseWriter, request *http.Request) {
	total, err := handler.service.CountPublished(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, totalResponse{Total: total})
}

func (handler *Handler) countUncategorized(writer http.ResponseWriter, request *http.Request) {
	total, err := handler.service.CountUncategorizedPublished(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, totalResponse{Total: total})
}

// getPublished accepts either the blog ID or its slug.
func (handler *Handler) getPublished(writer http.ResponseWriter, request *http.Request) {
	blog, err := handler.service.GetPublished(request.Context(), requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}

// # Author reads

func (handler *Handler) listBlogs(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	blogs, total, err := handler.service.List(request.Context(), filterFromRequest(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, blogs, pagination.NewMeta(page, total))
}

func (handler *Handler) getBlog(writer http.ResponseWriter, request *http.Request) {
	blog, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}

// # Writes

/*
POST /api/v1/blogs/{action}.

Request (multipart):
  - action: save | publish
  - title, content: string
  - category: category ID (optional)
  - tags: tag IDs, repeated or comma-separated (optional)
  - is_private: bool (optional)
  - image: file, or image_file: existing image ID

Response:
  - 201: Blog
  - 400: validation error or unknown reference
*/
func (handler *Handler) createBlog(writer http.ResponseWriter, request *http.Request) {
	action, err := ParseAction(requestutil.Param(request, "action"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	choice, err := imagefile.ChoiceFromRequest(writer, request, handler.maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{
		Title:     request.FormValue(FieldTitle),
		Content:   request.FormValue(FieldContent),
		IsPrivate: query.Bool(request.FormValue("is_private"), false),
		Image:     choice,
	}
	if category := strings.TrimSpace(request.FormValue(FieldCategory)); category != "" {
		input.CategoryID = &category
	}
	if request.MultipartForm != nil {
		input.Tags = query.StringSlice(request.MultipartForm.Value[FieldTags]...)
	}

	blog, err := handler.service.Create(request.Context(), claims.UserID, input, action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, blog)
}

/*
PUT /api/v1/blogs/{id}/{action}.

Request (JSON): any of title, content, category (null clears it), tags,
is_private, likes. Omitted keys are left unchanged.

Response:
  - 200: Blog
  - 404: blog not found
  - 409: likes repeats an ID
*/
func (handler *Handler) updateBlog(writer http.ResponseWriter, request *http.Request) {
	action, err := ParseAction(requestutil.Param(request, "action"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body updateRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Title:     body.Title,
		Content:   body.Content,
		Category:  body.Category,
		Tags:      body.Tags,
		IsPrivate: body.IsPrivate,
		Likes:     body.Likes,
	}, action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}

func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
	choice, err := imagefile.ChoiceFromRequest(writer, request, handler.maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.UpdateImage(request.Context(), requestutil.ID(request, "id"), choice)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}

func (handler *Handler) deleteBlog(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Likes

/*
PUT /api/v1/blogs/{id}/likes/{userId}.

Toggles the caller's like. userId must be the caller.

Response:
  - 200: { blog, liked }
  - 403: userId is someone else
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "userId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, liked, err := handler.service.ToggleLike(request.Context(), requestutil.ID(request, "id"), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, likeResponse{Blog: blog, Liked: liked})
}

func (handler *Handler) replaceLikes(writer http.ResponseWriter, request *http.Request) {
	var body likesRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.ReplaceLikes(request.Context(), requestutil.ID(request, "id"), body.Likes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog)
}
