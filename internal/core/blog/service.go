// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/cache"
	"github.com/taibuivan/quill/internal/platform/constants"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/optional"
	"github.com/taibuivan/quill/pkg/pagination"
	"github.com/taibuivan/quill/pkg/slug"
	"github.com/taibuivan/quill/pkg/uuid"
)

// # Dependencies

// Images is the part of the image-file service blogs depend on.
type Images interface {
	Resolve(ctx context.Context, choice imagefile.Choice) (*string, func(), error)
	Attach(ctx context.Context, owner relation.Ref, old, updated *string) error
	Detach(ctx context.Context, owner relation.Ref, imageID *string) error
}

// Comments deletes every comment on a blog that is being deleted.
type Comments interface {
	PurgeBlog(ctx context.Context, blogID string) (int, error)
}

// statsKey is the cache key of the public counters.
const statsKey = constants.RedisPrefixBlogStats + "public"

// Service manages blogs and keeps their category, tag and image mirrors in step.
type Service struct {
	repo     Repository
	syncer   *relation.Syncer
	images   Images
	comments Comments
	cache    cache.Cache
	cacheTTL time.Duration
	tx       txn.Runner
	logger   *slog.Logger
	now      func() time.Time
}

// Config groups the collaborators of a blog [Service].
type Config struct {
	Repository Repository
	Syncer     *relation.Syncer
	Images     Images
	Comments   Comments
	Cache      cache.Cache
	CacheTTL   time.Duration
	Tx         txn.Runner
	Logger     *slog.Logger
}

// NewService creates a blog [Service].
func NewService(config Config) *Service {
	return &Service{
		repo:     config.Repository,
		syncer:   config.Syncer,
		images:   config.Images,
		comments: config.Comments,
		cache:    config.Cache,
		cacheTTL: config.CacheTTL,
		tx:       config.Tx,
		logger:   config.Logger,
		now:      time.Now,
	}
}

// # Inputs

// CreateInput carries a new blog. The image is required; category and tags are optional.
type CreateInput struct {
	Title      string
	Content    string
	CategoryID *string
	Tags       []string
	IsPrivate  bool
	Image      imagefile.Choice
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
//
// Category distinguishes an absent field from an explicit null, which
// removes the blog from its category. Likes, when set, replaces the whole
// like set and must not repeat an ID.
type UpdateInput struct {
	Title     *string
	Content   *string
	Category  optional.Field[string]
	Tags      *[]string
	IsPrivate *bool
	Likes     *[]string
}

// # Lookups

// Get returns any blog, drafts included.
func (service *Service) Get(ctx context.Context, id string) (*Blog, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// List returns a page of every blog, drafts included.
func (service *Service) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Blog, int, error) {
	filter.PublicOnly = false
	return service.repo.List(ctx, filter, page)
}

// ListPublished returns a page of the blogs readers can see.
func (service *Service) ListPublished(ctx context.Context, filter Filter, page pagination.Params) ([]*Blog, int, error) {
	filter.PublicOnly = true
	return service.repo.List(ctx, filter, page)
}

// GetPublished finds a public blog by ID or slug. Drafts and private blogs are reported as not found.
func (service *Service) GetPublished(ctx context.Context, identifier string) (*Blog, error) {
	var blog *Blog
	var err error

	if uuid.Valid(identifier) {
		blog, err = service.repo.FindByID(ctx, identifier)
	} else {
		blog, err = service.repo.FindBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !blog.Public() {
		return nil, apperr.NotFound(resource)
	}
	return blog, nil
}

// CountPublished returns the number of public blogs.
func (service *Service) CountPublished(ctx context.Context) (int, error) {
	stats, err := service.stats(ctx)
	return stats.Published, err
}

// CountUncategorizedPublished returns the number of public blogs without a category.
func (service *Service) CountUncategorizedPublished(ctx context.Context) (int, error) {
	stats, err := service.stats(ctx)
	return stats.Uncategorized, err
}

// stats reads the public counters through the cache. Cache failures fall back to the database.
func (service *Service) stats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := cache.GetJSON(ctx, service.cache, statsKey, &stats)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		service.logger.WarnContext(ctx, "blog_stats_cache_read_failed", slog.Any("error", err))
	}

	if stats.Published, err = service.repo.Count(ctx, Filter{PublicOnly: true}); err != nil {
		return Stats{}, err
	}
	if stats.Uncategorized, err = service.repo.Count(ctx, Filter{PublicOnly: true, Uncategorized: true}); err != nil {
		return Stats{}, err
	}

	if err := cache.SetJSON(ctx, service.cache, statsKey, stats, service.cacheTTL); err != nil {
		service.logger.WarnContext(ctx, "blog_stats_cache_write_failed", slog.Any("error", err))
	}
	return stats, nil
}

func (service *Service) invalidateStats(ctx context.Context) {
	if err := service.cache.Delete(ctx, statsKey); err != nil {
		service.logger.WarnContext(ctx, "blog_stats_cache_invalidate_failed", slog.Any("error", err))
	}
}

// # Create

/*
Create stores a new blog and registers it on its category, tags and image.

Every referenced category, tag and existing image must exist; this is
checked before anything is written. A fresh upload is discarded again when
the blog cannot be stored.

Parameters:
  - authorID: the author's ID from the token
  - input: CreateInput
  - action: ActionSave or ActionPublish

Returns:
  - *Blog: the stored blog
  - error: ValidationError, Conflict for a slug clash, PartialConsistency
*/
func (service *Service) Create(ctx context.Context, authorID string, input CreateInput, action Action) (*Blog, error) {
	title := sanitize.Plain(input.Title)
	content := sanitize.Rich(input.Content)
	tags := relation.NewSet(input.Tags...)

	// ── 1. Validation ─────────────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		Required(FieldContent, content).
		OptionalUUID(FieldCategory, input.CategoryID).
		UUIDs(FieldTags, input.Tags).
		Custom(FieldTags, tags.Len() > MaxTags, "Too many tags")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := imagefile.ValidateChoice(input.Image, true); err != nil {
		return nil, err
	}

	// ── 2. Referenced documents ───────────────────────────────────────────
	if input.CategoryID != nil {
		if err := service.syncer.Require(ctx, relation.KindCategory, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := service.syncer.Require(ctx, relation.KindTag, tags.Slice()...); err != nil {
		return nil, err
	}

	imageID, discard, err := service.images.Resolve(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	// ── 3. Blog and mirrors ───────────────────────────────────────────────
	now := service.now().UTC()
	blog := &Blog{
		ID:          uuid.New(),
		Title:       title,
		Content:     content,
		AuthorID:    authorID,
		ImageFileID: imageID,
		CategoryID:  input.CategoryID,
		Tags:        tags,
		Likes:       relation.Set{},
		Comments:    []string{},
		IsPrivate:   input.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	action.apply(blog, now)

	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if blog.Slug, err = service.uniqueSlug(ctx, title, blog.ID); err != nil {
			return err
		}
		if err := service.repo.Create(ctx, blog); err != nil {
			return err
		}
		if _, err := service.syncer.Sync(ctx, ref(blog.ID), relation.CategoryBlogs, relation.Set{}, relation.Optional(blog.CategoryID), relation.Strict); err != nil {
			return err
		}
		if _, err := service.syncer.Sync(ctx, ref(blog.ID), relation.TagBlogs, relation.Set{}, blog.Tags, relation.Strict); err != nil {
			return err
		}
		return service.images.Attach(ctx, ref(blog.ID), nil, blog.ImageFileID)
	})
	if err != nil {
		discard()
		return nil, err
	}

	service.invalidateStats(ctx)
	service.logger.InfoContext(ctx, "blog_created",
		slog.String("blog_id", blog.ID),
		slog.String("action", string(action)),
		slog.Int("tags", blog.Tags.Len()),
	)
	return blog, nil
}

// # Update

/*
Update applies a partial update and moves the blog between categories and tags.

Category and tag changes run in lenient mode: a target that no longer
exists is skipped rather than failing the update. The like set is replaced
only when input.Likes is given, and a repeated ID rejects the whole update.
*/
func (service *Service) Update(ctx context.Context, id string, input UpdateInput, action Action) (*Blog, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		title := sanitize.Plain(*input.Title)
		input.Title = &title
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
	}
	if input.Content != nil {
		content := sanitize.Rich(*input.Content)
		input.Content = &content
		validator.Required(FieldContent, content)
	}
	if input.Category.Set {
		validator.OptionalUUID(FieldCategory, input.Category.Value)
	}
	if input.Tags != nil {
		validator.UUIDs(FieldTags, *input.Tags).
			Custom(FieldTags, relation.NewSet(*input.Tags...).Len() > MaxTags, "Too many tags")
	}
	if input.Likes != nil {
		validator.UUIDs(FieldLikes, *input.Likes)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var blog *Blog
	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.Title != nil && *input.Title != current.Title {
			updated.Title = *input.Title
			if updated.Slug, err = service.uniqueSlug(ctx, updated.Title, id); err != nil {
				return err
			}
		}
		if input.Content != nil {
			updated.Content = *input.Content
		}
		if input.Category.Set {
			updated.CategoryID = input.Category.Value
		}
		if input.Tags != nil {
			updated.Tags = relation.NewSet(*input.Tags...)
		}
		if input.IsPrivate != nil {
			updated.IsPrivate = *input.IsPrivate
		}
		if input.Likes != nil {
			if updated.Likes, _, err = relation.Replace(current.Likes, *input.Likes); err != nil {
				return err
			}
		}

		now := service.now().UTC()
		action.apply(&updated, now)
		updated.UpdatedAt = now

		if err := service.repo.Update(ctx, &updated); err != nil {
			return err
		}
		if _, err := service.syncer.Sync(ctx, ref(id), relation.CategoryBlogs,
			relation.Optional(current.CategoryID), relation.Optional(updated.CategoryID), relation.Lenient); err != nil {
			return err
		}
		if _, err := service.syncer.Sync(ctx, ref(id), relation.TagBlogs, current.Tags, updated.Tags, relation.Lenient); err != nil {
			return err
		}

		blog = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.invalidateStats(ctx)
	service.logger.InfoContext(ctx, "blog_updated",
		slog.String("blog_id", id),
		slog.String("action", string(action)),
	)
	return blog, nil
}

// UpdateImage points the blog at a new or existing image and moves its image reference.
func (service *Service) UpdateImage(ctx context.Context, id string, choice imagefile.Choice) (*Blog, error) {
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

	var blog *Blog
	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if blog, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		previous := blog.ImageFileID
		blog.ImageFileID = imageID
		blog.UpdatedAt = service.now().UTC()

		if err := service.repo.Update(ctx, blog); err != nil {
			return err
		}
		return service.images.Attach(ctx, ref(id), previous, imageID)
	})
	if err != nil {
		discard()
		return nil, err
	}

	service.logger.InfoContext(ctx, "blog_image_updated",
		slog.String("blog_id", id),
		slog.String("image_id", *imageID),
	)
	return blog, nil
}

// # Delete

/*
Delete removes a blog and everything that hangs off it.

Its comments and their replies are deleted, and the blog is pulled from its
tags, its category and its image. A category or tag that no longer exists
is skipped.
*/
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	var purged, writes int

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		blog, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}

		if purged, err = service.comments.PurgeBlog(ctx, id); err != nil {
			return err
		}

		if err := service.repo.Delete(ctx, id); err != nil {
			return err
		}

		writes, err = service.syncer.Cascade(ctx, relation.Snapshot{
			Owner: ref(id),
			Links: []relation.Link{
				{Inverse: relation.TagBlogs, Targets: blog.Tags},
				{Inverse: relation.CategoryBlogs, Targets: relation.Optional(blog.CategoryID)},
			},
		})
		if err != nil {
			return err
		}

		return service.images.Detach(ctx, ref(id), blog.ImageFileID)
	})
	if err != nil {
		return err
	}

	service.invalidateStats(ctx)
	service.logger.InfoContext(ctx, "blog_deleted",
		slog.String("blog_id", id),
		slog.Int("comments_deleted", purged),
		slog.Int("references_pulled", writes),
	)
	return nil
}

// # Likes

// ToggleLike adds userID to the blog's likes, or removes it when already present.
//
// The boolean reports whether the user likes the blog afterwards.
func (service *Service) ToggleLike(ctx context.Context, id, userID string) (*Blog, bool, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, false, err
	}

	var blog *Blog
	var liked bool

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if blog, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		blog.Likes, liked = relation.Toggle(blog.Likes, userID)
		blog.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, blog)
	})
	if err != nil {
		return nil, false, err
	}

	service.logger.InfoContext(ctx, "blog_like_toggled",
		slog.String("blog_id", id),
		slog.String("user_id", userID),
		slog.Bool("liked", liked),
	)
	return blog, liked, nil
}

// ReplaceLikes swaps the whole like set. A submitted list with a repeated ID is rejected with Conflict.
func (service *Service) ReplaceLikes(ctx context.Context, id string, likes []string) (*Blog, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.UUIDs(FieldLikes, likes).Err(); err != nil {
		return nil, err
	}

	var blog *Blog
	var change relation.Change

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if blog, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		if blog.Likes, change, err = relation.Replace(blog.Likes, likes); err != nil {
			return err
		}
		if change.Empty() {
			return nil
		}

		blog.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, blog)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "blog_likes_replaced",
		slog.String("blog_id", id),
		slog.Int("added", len(change.Added)),
		slog.Int("removed", len(change.Removed)),
	)
	return blog, nil
}

// # Helpers

func ref(id string) relation.Ref {
	return relation.Ref{Kind: relation.KindBlog, ID: id}
}

// uniqueSlug derives a slug from title, suffixing the blog ID when another blog already uses it.
func (service *Service) uniqueSlug(ctx context.Context, title, id string) (string, error) {
	base := slug.From(title)
	if base == "" {
		base = "blog"
	}

	existing, err := service.repo.FindBySlug(ctx, base)
	switch {
	case apperr.HasCode(err, apperr.CodeNotFound):
		return base, nil
	case err != nil:
		return "", err
	case existing.ID == id:
		return base, nil
	}
	return base + "-" + id[len(id)-12:], nil
}
