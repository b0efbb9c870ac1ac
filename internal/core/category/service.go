// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/slug"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Images is the part of the image-file service categories depend on.
type Images interface {
	Resolve(ctx context.Context, choice imagefile.Choice) (*string, func(), error)
	Attach(ctx context.Context, owner relation.Ref, old, updated *string) error
	Detach(ctx context.Context, owner relation.Ref, imageID *string) error
}

// Service manages categories.
type Service struct {
	repo   Repository
	images Images
	tx     txn.Runner
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a category [Service].
func NewService(repo Repository, images Images, tx txn.Runner, logger *slog.Logger) *Service {
	return &Service{repo: repo, images: images, tx: tx, logger: logger, now: time.Now}
}

// CreateInput carries a new category. The image is optional.
type CreateInput struct {
	Name        string
	Description string
	Image       imagefile.Choice
}

// # Lookups

func (service *Service) List(ctx context.Context) ([]*Category, error) {
	return service.repo.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (*Category, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// ListWithPublishedBlogs returns the categories readers can browse, with their public blog counts.
func (service *Service) ListWithPublishedBlogs(ctx context.Context) ([]*Listing, error) {
	return service.repo.ListWithPublishedBlogs(ctx)
}

// ListWithLatestBlogs embeds up to limit of the newest public blogs in each browsable category.
func (service *Service) ListWithLatestBlogs(ctx context.Context, limit int) ([]*Listing, error) {
	if limit <= 0 {
		limit = DefaultLatestBlogs
	}
	return service.repo.ListWithLatestBlogs(ctx, min(limit, 20))
}

// # Mutations

/*
Create stores a category and registers it on its image.

A fresh upload is discarded again when the category cannot be stored.

Returns:
  - *Category: the stored category with an empty Blogs list
  - error: ValidationError, Conflict for a taken name, or a missing image
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Category, error) {
	name, description, err := normalize(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := imagefile.ValidateChoice(input.Image, false); err != nil {
		return nil, err
	}
	if err := service.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}

	imageID, discard, err := service.images.Resolve(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug.From(name),
		Description: description,
		ImageFileID: imageID,
		Blogs:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := service.repo.Create(ctx, category); err != nil {
			return err
		}
		return service.images.Attach(ctx, ref(category.ID), nil, imageID)
	})
	if err != nil {
		discard()
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

// Update changes the name and description. The slug follows the name.
func (service *Service) Update(ctx context.Context, id, name, description string) (*Category, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	name, description, err := normalize(name, description)
	if err != nil {
		return nil, err
	}
	if err := service.ensureUnique(ctx, name, id); err != nil {
		return nil, err
	}

	var category *Category
	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		category, err = service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		category.Name = name
		category.Slug = slug.From(name)
		category.Description = description
		category.UpdatedAt = service.now().UTC()

		return service.repo.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_updated", slog.String("category_id", id))
	return category, nil
}

// UpdateImage points the category at a new or existing image and moves its image reference.
func (service *Service) UpdateImage(ctx context.Context, id string, choice imagefile.Choice) (*Category, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	if err := imagefile.ValidateChoice(choice, true); err != nil {
		return nil, err
	}
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	imageID, discard, err := service.images.Resolve(ctx, choice)
	if err != nil {
		return nil, err
	}

	var category *Category
	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		category, err = service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		previous := category.ImageFileID
		category.ImageFileID = imageID
		category.UpdatedAt = service.now().UTC()

		if err := service.repo.Update(ctx, category); err != nil {
			return err
		}
		return service.images.Attach(ctx, ref(id), previous, imageID)
	})
	if err != nil {
		discard()
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_image_updated",
		slog.String("category_id", id),
		slog.String("image_id", *imageID),
	)
	return category, nil
}

// Delete removes a category no blog belongs to, and pulls it from its image.
//
// A category still listing blogs is refused with PreconditionFailed and left untouched.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		category, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		if err := relation.Guard(relation.KindCategory, category.Blogs); err != nil {
			return err
		}

		if err := service.repo.Delete(ctx, id); err != nil {
			return err
		}
		return service.images.Detach(ctx, ref(id), category.ImageFileID)
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "category_deleted", slog.String("category_id", id))
	return nil
}

// # Helpers

func ref(id string) relation.Ref {
	return relation.Ref{Kind: relation.KindCategory, ID: id}
}

func normalize(name, description string) (string, string, error) {
	name = strings.TrimSpace(sanitize.Plain(name))
	description = sanitize.Plain(description)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		MaxLen(FieldDescription, description, MaxDescriptionLength)

	return name, description, validator.Err()
}

func (service *Service) ensureUnique(ctx context.Context, name, exceptID string) error {
	existing, err := service.repo.FindByName(ctx, name)
	switch {
	case apperr.HasCode(err, apperr.CodeNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperr.Conflict(fmt.Sprintf("Category %q already exists", existing.Name))
	}
	return nil
}
