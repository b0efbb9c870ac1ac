// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imagefile

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/constants"
	"github.com/taibuivan/quill/internal/platform/middleware"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
)

// Handler exposes image files over HTTP.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates an image-file [Handler].
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes mounts the image endpoints. Reads are public; writes need the author.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listImages)
	router.Get("/{id}", handler.getImage)
	router.Get("/{id}/source", handler.getSource)

	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Post("/", handler.uploadImage)
		author.Put("/{id}/credit", handler.updateCredit)
		author.Delete("/{id}", handler.deleteImage)
	})

	return router
}

// # Multipart

/*
UploadFromRequest reads an optional image part named field from a multipart form.

Credit fields are read from the same form. It returns nil when the part is
absent so callers can fall back to an existing image ID.

Returns:
  - *Upload: the buffered image, or nil
  - error: ValidationError for a malformed form or an oversized file
*/
func UploadFromRequest(writer http.ResponseWriter, request *http.Request, field string, maxBytes int64) (*Upload, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes+constants.MultipartMemoryBytes)
	if err := request.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validate.FieldError(field, fmt.Sprintf("Image must not exceed %d bytes", maxBytes))
		}
		return nil, validate.FieldError(field, "Expected a multipart form")
	}

	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, validate.FieldError(field, "The image part could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, validate.FieldError(field, "The image part could not be read")
	}
	if int64(len(data)) > maxBytes {
		return nil, validate.FieldError(field, fmt.Sprintf("Image must not exceed %d bytes", maxBytes))
	}

	return &Upload{
		FileName: header.Filename,
		Data:     data,
		Credit:   creditFromForm(request),
	}, nil
}

// FieldExistingImage is the form field naming an already uploaded image.
const FieldExistingImage = "image_file"

// ChoiceFromRequest reads an image given either as an upload in the "image"
// part or as an existing image ID in the "image_file" field.
func ChoiceFromRequest(writer http.ResponseWriter, request *http.Request, maxBytes int64) (Choice, error) {
	upload, err := UploadFromRequest(writer, request, FieldImage, maxBytes)
	if err != nil {
		return Choice{}, err
	}

	choice := Choice{Upload: upload}
	if existing := strings.TrimSpace(request.FormValue(FieldExistingImage)); existing != "" {
		choice.ExistingID = &existing
	}
	return choice, nil
}

func creditFromForm(request *http.Request) Credit {
	return Credit{
		AuthorName: request.FormValue(FieldCreditAuthorName),
		AuthorURL:  request.FormValue(FieldCreditAuthorURL),
		SourceName: request.FormValue(FieldCreditSourceName),
		SourceURL:  request.FormValue(FieldCreditSourceURL),
	}
}

// # Endpoints

func (handler *Handler) listImages(writer http.ResponseWriter, request *http.Request) {
	images, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, images)
}

func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	image, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, image)
}

/*
GET /api/v1/image-files/{id}/source.

Description: Streams the stored JPEG or PNG with a long-lived cache header.

Response:
  - 200: image bytes
  - 404: image or its binary not found
*/
func (handler *Handler) getSource(writer http.ResponseWriter, request *http.Request) {
	image, object, err := handler.service.Source(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	length := object.ContentLength
	if length <= 0 {
		length = image.Size
	}
	respond.Stream(writer, request, object.Body, object.ContentType, length)
}

/*
POST /api/v1/image-files.

Request (multipart):
  - image: file (JPEG or PNG)
  - credit_author_name, credit_author_url, credit_source_name, credit_source_url: string

Response:
  - 201: ImageFile
  - 400: missing, oversized or unsupported image; invalid credit
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	upload, err := UploadFromRequest(writer, request, FieldImage, handler.maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if upload == nil {
		respond.Error(writer, request, validate.FieldError(FieldImage, "An image file is required"))
		return
	}

	image, err := handler.service.Upload(request.Context(), *upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, image)
}

func (handler *Handler) updateCredit(writer http.ResponseWriter, request *http.Request) {
	var credit Credit
	if err := requestutil.DecodeJSON(writer, request, &credit); err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.UpdateCredit(request.Context(), requestutil.ID(request, "id"), credit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, image)
}

func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
