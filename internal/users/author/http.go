// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
)

// Handler exposes the author profile and sign-in.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates an author [Handler]. maxBytes bounds image uploads.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes mounts the author endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.fetchAuthor)
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Put("/", handler.updateProfile)
		author.Put("/image", handler.updateImage)
	})

	return router
}

type registerRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (handler *Handler) fetchAuthor(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.Fetch(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

/*
POST /api/v1/author/register.

Response:
  - 201: Author
  - 400: validation error
  - 409: an author already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var body registerRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Register(request.Context(), RegisterInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

/*
POST /api/v1/author/login.

Request:
  - login: username or email
  - password: string

Response:
  - 200: { token, author }
  - 401: invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, body.Login).Required(FieldPassword, body.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login, err := handler.service.Login(request.Context(), body.Login, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, login)
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body profileRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Update(request.Context(), claims.UserID, body.Name, body.Bio)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
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

	author, err := handler.service.UpdateImage(request.Context(), claims.UserID, choice)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}
