// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
)

// Handler exposes viewer accounts over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a viewer [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the viewer endpoints.
//
// Account changes are limited to the viewer named in the path.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/{id}", handler.getViewer)

	router.Group(func(self chi.Router) {
		self.Use(middleware.RequireRole(sec.RoleViewer))

		self.Put("/{id}", handler.updateViewer)
		self.Post("/{id}/password/confirm", handler.confirmPassword)
		self.Put("/{id}/password", handler.changePassword)
		self.Delete("/{id}", handler.deleteViewer)
	})

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Get("/", handler.listViewers)
	})

	return router
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
}

type confirmRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type confirmResponse struct {
	Confirmed bool `json:"confirmed"`
}

/*
POST /api/v1/viewers/register.

Response:
  - 201: Viewer
  - 400: validation error
  - 409: username taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var body registerRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewer, err := handler.service.Register(request.Context(), RegisterInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, viewer)
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, body.Username).Required(FieldPassword, body.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login, err := handler.service.Login(request.Context(), body.Username, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, login)
}

func (handler *Handler) getViewer(writer http.ResponseWriter, request *http.Request) {
	viewer, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, viewer)
}

func (handler *Handler) listViewers(writer http.ResponseWriter, request *http.Request) {
	viewers, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, viewers)
}

func (handler *Handler) updateViewer(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body updateRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewer, err := handler.service.Update(request.Context(), claims.UserID, UpdateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, viewer)
}

func (handler *Handler) confirmPassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body confirmRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ConfirmPassword(request.Context(), claims.UserID, body.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, confirmResponse{Confirmed: true})
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), claims.UserID, body.CurrentPassword, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
DELETE /api/v1/viewers/{id}.

Deletes the caller's own account and revokes the token. Comments are kept.

Response:
  - 204: deleted
  - 403: id is someone else
*/
func (handler *Handler) deleteViewer(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequireSelf(request, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
