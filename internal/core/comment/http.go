// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/ctxutil"
	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
)

// Handler exposes comments over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the comment endpoints. Reads are public; writing needs a signed-in principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listComments)
	router.Get("/{id}", handler.getComment)
	router.Get("/{id}/replies", handler.listReplies)

	router.Group(func(signedIn chi.Router) {
		signedIn.Use(middleware.RequireRole(sec.RoleViewer))

		signedIn.Post("/", handler.createComment)
		signedIn.Post("/{id}/replies", handler.replyToComment)
		signedIn.Put("/{id}", handler.updateComment)
		signedIn.Delete("/{id}", handler.deleteComment)
		signedIn.Put("/{id}/likes/{userId}", handler.toggleLike)
	})

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Put("/{id}/likes", handler.replaceLikes)
	})

	return router
}

type createRequest struct {
	Blog    string `json:"blog"`
	Content string `json:"content"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type likesRequest struct {
	Likes []string `json:"likes"`
}

type likeResponse struct {
	Comment *Comment `json:"comment"`
	Liked   bool     `json:"liked"`
}

func principal(request *http.Request) (Principal, error) {
	caller, err := ctxutil.GetPrincipal(request.Context())
	if err != nil {
		return Principal{}, err
	}
	return principalOf(caller), nil
}

// # Reads

/*
GET /api/v1/comments.

Request:
  - blog: only comments on this blog (optional)

Response:
  - 200: []Comment, oldest first
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	blogID := strings.TrimSpace(request.URL.Query().Get("blog"))

	comments, err := handler.service.List(request.Context(), blogID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) listReplies(writer http.ResponseWriter, request *http.Request) {
	replies, err := handler.service.Replies(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, replies)
}

// # Writes

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body createRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), actor, strings.TrimSpace(body.Blog), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

/*
POST /api/v1/comments/{id}/replies.

The reply is posted on the parent's blog.

Response:
  - 201: Comment
  - 404: parent comment not found
*/
func (handler *Handler) replyToComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.service.Reply(request.Context(), actor, requestutil.ID(request, "id"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, reply)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), actor, requestutil.ID(request, "id"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Likes

func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "userId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, liked, err := handler.service.ToggleLike(request.Context(), requestutil.ID(request, "id"), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, likeResponse{Comment: comment, Liked: liked})
}

func (handler *Handler) replaceLikes(writer http.ResponseWriter, request *http.Request) {
	var body likesRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.ReplaceLikes(request.Context(), requestutil.ID(request, "id"), body.Likes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}
