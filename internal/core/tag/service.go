// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/slug"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Service manages tags.
type Service struct {
	repo   Repository
	tx     txn.Runner
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a tag [Service].
func NewService(repo Repository, tx txn.Runner, logger *slog.Logger) *Service {
	return &Service{repo: repo, tx: tx, logger: logger, now: time.Now}
}

// # Lookups

func (service *Service) List(ctx context.Context) ([]*Tag, error) {
	return service.repo.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (*Tag, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// # Mutations

/*
Create adds a tag. The name is trimmed, stripped of markup and lowercased
before the uniqueness check.

Returns:
  - *Tag: the stored tag
  - error: ValidationError for an empty or overlong name, Conflict when taken
*/
func (service *Service) Create(ctx context.Context, name string) (*Tag, error) {
	name, err := normalize(name)
	if err != nil {
		return nil, err
	}

	if err := service.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	tag := &Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug.From(name),
		Blogs:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.Create(ctx, tag); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "tag_created",
		slog.String("tag_id", tag.ID),
		slog.String("name", tag.Name),
	)
	return tag, nil
}

// Update renames a tag and re-derives its slug.
func (service *Service) Update(ctx context.Context, id, name string) (*Tag, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	name, err := normalize(name)
	if err != nil {
		return nil, err
	}

	tag, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag.Name == name {
		return tag, nil
	}

	if err := service.ensureUnique(ctx, name, id); err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Slug = slug.From(name)
	tag.UpdatedAt = service.now().UTC()

	if err := service.repo.Update(ctx, tag); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "tag_updated", slog.String("tag_id", tag.ID))
	return tag, nil
}

// Delete removes a tag that no blog carries any more.
//
// A tag still listing blogs is refused with PreconditionFailed and left untouched.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		tag, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		if err := relation.Guard(relation.KindTag, tag.Blogs); err != nil {
			return err
		}

		return service.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "tag_deleted", slog.String("tag_id", id))
	return nil
}

// # Helpers

func normalize(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(sanitize.Plain(name)))

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	if err := validator.Err(); err != nil {
		return "", err
	}
	return name, nil
}

func (service *Service) ensureUnique(ctx context.Context, name, exceptID string) error {
	existing, err := service.repo.FindByName(ctx, name)
	switch {
	case apperr.HasCode(err, apperr.CodeNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperr.Conflict(fmt.Sprintf("Tag %q already exists", name))
	}
	return nil
}
