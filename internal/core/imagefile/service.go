// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imagefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/objectstore"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/uuid"
)

// objectPrefix groups every image binary in the bucket.
const objectPrefix = "images/"

// Service manages image uploads, their documents and their back-references.
type Service struct {
	repo     Repository
	objects  objectstore.Store
	syncer   *relation.Syncer
	tx       txn.Runner
	logger   *slog.Logger
	maxBytes int64
	now      func() time.Time
}

// NewService creates an image-file [Service]. Uploads larger than maxBytes are rejected.
func NewService(repo Repository, objects objectstore.Store, syncer *relation.Syncer, tx txn.Runner, logger *slog.Logger, maxBytes int64) *Service {
	return &Service{
		repo:     repo,
		objects:  objects,
		syncer:   syncer,
		tx:       tx,
		logger:   logger,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// # Lookups

func (service *Service) List(ctx context.Context) ([]*ImageFile, error) {
	return service.repo.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (*ImageFile, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// Source opens the stored binary of an image. The caller closes the body.
func (service *Service) Source(ctx context.Context, id string) (*ImageFile, *objectstore.Object, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, nil, err
	}

	image, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	object, err := service.objects.Get(ctx, image.ObjectKey)
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		service.logger.WarnContext(ctx, "image_binary_missing",
			slog.String("image_id", id),
			slog.String("object_key", image.ObjectKey),
		)
		return nil, nil, apperr.NotFound("Image source")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	if object.ContentType == "" {
		object.ContentType = image.FileType
	}
	return image, object, nil
}

// # Upload

/*
Upload validates, stores and records a new image.

Only JPEG and PNG are accepted; the type is sniffed from the bytes, never
taken from the client, and the image is decoded to record its dimensions.
The binary is written before the document, and removed again if the
document cannot be stored.

Returns:
  - *ImageFile: the stored document with an empty ReferencedDocs list
  - error: ValidationError for an empty, oversized, unsupported or corrupt image
*/
func (service *Service) Upload(ctx context.Context, upload Upload) (*ImageFile, error) {
	credit, err := normalizeCredit(upload.Credit)
	if err != nil {
		return nil, err
	}

	// ── 1. Content checks ─────────────────────────────────────────────────
	size := int64(len(upload.Data))
	switch {
	case size == 0:
		return nil, validate.FieldError(FieldImage, "An image file is required")
	case service.maxBytes > 0 && size > service.maxBytes:
		return nil, validate.FieldError(FieldImage, fmt.Sprintf("Image must not exceed %d bytes", service.maxBytes))
	}

	fileType := http.DetectContentType(upload.Data)
	if fileType != TypeJPEG && fileType != TypePNG {
		return nil, validate.FieldError(FieldImage, "Only JPEG and PNG images are supported")
	}

	decoded, err := imaging.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, validate.FieldError(FieldImage, "The image could not be decoded")
	}
	bounds := decoded.Bounds()

	// ── 2. Binary ─────────────────────────────────────────────────────────
	id := uuid.New()
	image := &ImageFile{
		ID:             id,
		FileName:       fileName(upload.FileName, fileType),
		FileType:       fileType,
		Size:           size,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		ObjectKey:      objectPrefix + id + extension(fileType),
		Credit:         credit,
		ReferencedDocs: []string{},
		UploadedAt:     service.now().UTC(),
	}

	if err := service.objects.Put(ctx, image.ObjectKey, bytes.NewReader(upload.Data), size, fileType); err != nil {
		return nil, apperr.Internal(fmt.Errorf("put %s: %w", image.ObjectKey, err))
	}

	// ── 3. Document ───────────────────────────────────────────────────────
	if err := service.repo.Create(ctx, image); err != nil {
		if deleteErr := service.objects.Delete(ctx, image.ObjectKey); deleteErr != nil {
			service.logger.ErrorContext(ctx, "image_orphan_binary",
				slog.String("object_key", image.ObjectKey),
				slog.Any("error", deleteErr),
			)
		}
		return nil, err
	}

	service.logger.InfoContext(ctx, "image_uploaded",
		slog.String("image_id", image.ID),
		slog.String("file_type", image.FileType),
		slog.Int64("size", image.Size),
	)
	return image, nil
}

// UpdateCredit replaces the attribution of an image.
func (service *Service) UpdateCredit(ctx context.Context, id string, credit Credit) (*ImageFile, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	credit, err := normalizeCredit(credit)
	if err != nil {
		return nil, err
	}

	if err := service.repo.UpdateCredit(ctx, id, credit); err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, id)
}

// # References

// ValidateChoice checks that at most one image form was given, and exactly one when required.
func ValidateChoice(choice Choice, required bool) error {
	validator := &validate.Validator{}
	validator.
		Custom(FieldImage, choice.ExistingID != nil && choice.Upload != nil, "Provide either an upload or an existing image, not both").
		Custom(FieldImage, required && choice.Empty(), "An image is required").
		OptionalUUID(FieldImage, choice.ExistingID)
	return validator.Err()
}

// Resolve uploads choice.Upload when present and returns the image ID to reference.
//
// An existing image must still exist. The returned discard function deletes
// a fresh upload again; callers run it when the write that was meant to
// reference the image fails.
func (service *Service) Resolve(ctx context.Context, choice Choice) (*string, func(), error) {
	if choice.Upload == nil {
		if choice.ExistingID != nil {
			if err := service.syncer.Require(ctx, relation.KindImageFile, *choice.ExistingID); err != nil {
				return nil, func() {}, err
			}
		}
		return choice.ExistingID, func() {}, nil
	}

	image, err := service.Upload(ctx, *choice.Upload)
	if err != nil {
		return nil, func() {}, err
	}

	discard := func() {
		if err := service.Delete(context.WithoutCancel(ctx), image.ID); err != nil {
			service.logger.ErrorContext(ctx, "image_discard_failed",
				slog.String("image_id", image.ID),
				slog.Any("error", err),
			)
		}
	}
	return &image.ID, discard, nil
}

// Attach moves owner's image reference from old to updated, either of which may be nil.
//
// The new image must exist. Callers run it in the same unit of work as the
// write to owner's imageFile field.
func (service *Service) Attach(ctx context.Context, owner relation.Ref, old, updated *string) error {
	_, err := service.syncer.Sync(ctx, owner, relation.ImageReferences,
		relation.Optional(old), relation.Optional(updated), relation.Strict)
	return err
}

// Detach pulls owner from the image it used. It is the cascade for a deleted owner.
func (service *Service) Detach(ctx context.Context, owner relation.Ref, imageID *string) error {
	_, err := service.syncer.Cascade(ctx, relation.Snapshot{
		Owner: owner,
		Links: []relation.Link{{Inverse: relation.ImageReferences, Targets: relation.Optional(imageID)}},
	})
	return err
}

// # Delete

/*
Delete removes an image and clears it from every document that uses it.

Each "kind:id" reference is resolved directly and its imageFile field is
unset; owners that already point elsewhere or no longer exist are skipped.
The document is deleted next and the binary last, exactly once.
*/
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	var objectKey string
	var cleared int

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		image, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}
		objectKey = image.ObjectKey

		owners := make([]relation.Ref, 0, len(image.ReferencedDocs))
		for _, value := range image.ReferencedDocs {
			owner, err := relation.ImageReferences.OwnerOf(value)
			if err != nil {
				service.logger.WarnContext(ctx, "image_reference_malformed",
					slog.String("image_id", id),
					slog.String("reference", value),
				)
				continue
			}
			owners = append(owners, owner)
		}

		cleared, err = service.syncer.ClearReferences(ctx, owners, relation.FieldImageFile, id)
		if err != nil {
			return err
		}

		return service.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := service.objects.Delete(ctx, objectKey); err != nil && !errors.Is(err, objectstore.ErrObjectNotFound) {
		service.logger.ErrorContext(ctx, "image_binary_delete_failed",
			slog.String("image_id", id),
			slog.String("object_key", objectKey),
			slog.Any("error", err),
		)
		return apperr.PartialConsistency(fmt.Errorf("delete object %s: %w", objectKey, err))
	}

	service.logger.InfoContext(ctx, "image_deleted",
		slog.String("image_id", id),
		slog.Int("references_cleared", cleared),
	)
	return nil
}

// # Helpers

func normalizeCredit(credit Credit) (Credit, error) {
	credit = Credit{
		AuthorName: sanitize.Plain(credit.AuthorName),
		AuthorURL:  strings.TrimSpace(credit.AuthorURL),
		SourceName: sanitize.Plain(credit.SourceName),
		SourceURL:  strings.TrimSpace(credit.SourceURL),
	}

	validator := &validate.Validator{}
	validator.
		MaxLen(FieldCreditAuthorName, credit.AuthorName, 100).
		MaxLen(FieldCreditSourceName, credit.SourceName, 100).
		URL(FieldCreditAuthorURL, credit.AuthorURL).
		URL(FieldCreditSourceURL, credit.SourceURL)

	return credit, validator.Err()
}

func extension(fileType string) string {
	if fileType == TypePNG {
		return ".png"
	}
	return ".jpg"
}

func fileName(name, fileType string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "image" + extension(fileType)
	}
	return name
}
