// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sanitize"
	"github.com/taibuivan/quill/internal/platform/txn"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Service manages comments and mirrors them on their blog, their principal and their parent.
type Service struct {
	repo   Repository
	syncer *relation.Syncer
	tx     txn.Runner
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a comment [Service].
func NewService(repo Repository, syncer *relation.Syncer, tx txn.Runner, logger *slog.Logger) *Service {
	return &Service{repo: repo, syncer: syncer, tx: tx, logger: logger, now: time.Now}
}

// # Lookups

// List returns comments oldest first, optionally only those on blogID.
func (service *Service) List(ctx context.Context, blogID string) ([]*Comment, error) {
	if blogID != "" {
		validator := &validate.Validator{}
		if err := validator.UUID("blog", blogID).Err(); err != nil {
			return nil, err
		}
	}
	return service.repo.List(ctx, blogID)
}

func (service *Service) Get(ctx context.Context, id string) (*Comment, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// Replies returns the direct replies to a comment.
func (service *Service) Replies(ctx context.Context, id string) ([]*Comment, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return service.repo.ListReplies(ctx, id)
}

// # Writes

/*
Create posts a top-level comment on a blog.

The comment is listed on the blog and on the principal who wrote it.

Returns:
  - *Comment: the stored comment
  - error: NotFound when the blog does not exist, ValidationError for bad content
*/
func (service *Service) Create(ctx context.Context, principal Principal, blogID, content string) (*Comment, error) {
	if err := validate.ID("blog", blogID); err != nil {
		return nil, err
	}

	content, err := normalize(content)
	if err != nil {
		return nil, err
	}

	return service.insert(ctx, principal, blogID, nil, content)
}

// Reply posts a reply under parentID on the parent's blog.
func (service *Service) Reply(ctx context.Context, principal Principal, parentID, content string) (*Comment, error) {
	if err := validate.ID("parent", parentID); err != nil {
		return nil, err
	}

	content, err := normalize(content)
	if err != nil {
		return nil, err
	}

	parent, err := service.repo.FindByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	return service.insert(ctx, principal, parent.BlogID, &parent.ID, content)
}

func (service *Service) insert(ctx context.Context, principal Principal, blogID string, parentID *string, content string) (*Comment, error) {
	if err := service.syncer.Require(ctx, relation.KindBlog, blogID); err != nil {
		if apperr.HasCode(err, apperr.CodeValidation) {
			return nil, apperr.NotFound("Blog")
		}
		return nil, err
	}
	if err := service.syncer.Require(ctx, principal.Kind, principal.ID); err != nil {
		if apperr.HasCode(err, apperr.CodeValidation) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	now := service.now().UTC()
	comment := &Comment{
		ID:        uuid.New(),
		Content:   content,
		BlogID:    blogID,
		ParentID:  parentID,
		Replies:   []string{},
		Likes:     relation.Set{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := principal.ID
	if principal.Kind == relation.KindAuthor {
		comment.AuthorID = &owner
	} else {
		comment.ViewerID = &owner
	}

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := service.repo.Create(ctx, comment); err != nil {
			return err
		}

		self := ref(comment.ID)
		if _, err := service.syncer.Sync(ctx, self, relation.BlogComments, relation.Set{}, relation.NewSet(blogID), relation.Strict); err != nil {
			return err
		}
		if _, err := service.syncer.Sync(ctx, self, principal.inverse(), relation.Set{}, relation.NewSet(principal.ID), relation.Strict); err != nil {
			return err
		}
		_, err := service.syncer.Sync(ctx, self, relation.CommentReplies, relation.Set{}, relation.Optional(parentID), relation.Strict)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("blog_id", blogID),
		slog.String("principal", principal.ref().String()),
		slog.Bool("reply", parentID != nil),
	)
	return comment, nil
}

// Update changes the content of a comment. Only the principal who wrote it may do so.
func (service *Service) Update(ctx context.Context, principal Principal, id, content string) (*Comment, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	content, err := normalize(content)
	if err != nil {
		return nil, err
	}

	var comment *Comment
	err = service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if comment, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}
		if comment.Principal() != principal {
			return apperr.Forbidden("You can only edit your own comments")
		}

		comment.Content = content
		comment.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "comment_updated", slog.String("comment_id", id))
	return comment, nil
}

/*
Delete removes a comment together with every reply beneath it.

Only the principal who wrote the comment may delete it. Each removed comment
is pulled from its blog, its principal and its parent.
*/
func (service *Service) Delete(ctx context.Context, principal Principal, id string) error {
	if err := validate.ID("id", id); err != nil {
		return err
	}

	var removed int

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		comment, err := service.repo.Lock(ctx, id)
		if err != nil {
			return err
		}
		if comment.Principal() != principal {
			return apperr.Forbidden("You can only delete your own comments")
		}

		removed, err = service.deleteThread(ctx, comment)
		return err
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "comment_deleted",
		slog.String("comment_id", id),
		slog.Int("comments_deleted", removed),
	)
	return nil
}

// deleteThread removes replies depth-first, then the comment itself.
func (service *Service) deleteThread(ctx context.Context, comment *Comment) (int, error) {
	replies, err := service.repo.ListReplies(ctx, comment.ID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, reply := range replies {
		count, err := service.deleteThread(ctx, reply)
		removed += count
		if err != nil {
			return removed, err
		}
	}

	if err := service.repo.Delete(ctx, comment.ID); err != nil {
		return removed, err
	}

	_, err = service.syncer.Cascade(ctx, relation.Snapshot{
		Owner: ref(comment.ID),
		Links: []relation.Link{
			{Inverse: relation.BlogComments, Targets: relation.NewSet(comment.BlogID)},
			{Inverse: comment.Principal().inverse(), Targets: relation.NewSet(comment.Principal().ID)},
			{Inverse: relation.CommentReplies, Targets: relation.Optional(comment.ParentID)},
		},
	})
	return removed + 1, err
}

// PurgeBlog deletes every comment on a blog that is itself being deleted.
//
// Comments are pulled from their principals only; the blog and the parents go with them.
func (service *Service) PurgeBlog(ctx context.Context, blogID string) (int, error) {
	comments, err := service.repo.List(ctx, blogID)
	if err != nil {
		return 0, err
	}

	for i, comment := range comments {
		if err := service.repo.Delete(ctx, comment.ID); err != nil {
			return i, err
		}

		principal := comment.Principal()
		_, err := service.syncer.Cascade(ctx, relation.Snapshot{
			Owner: ref(comment.ID),
			Links: []relation.Link{{Inverse: principal.inverse(), Targets: relation.NewSet(principal.ID)}},
		})
		if err != nil {
			return i + 1, err
		}
	}
	return len(comments), nil
}

// # Likes

// ToggleLike adds or removes userID from the comment's likes and reports whether it is now liked.
func (service *Service) ToggleLike(ctx context.Context, id, userID string) (*Comment, bool, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, false, err
	}

	var comment *Comment
	var liked bool

	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if comment, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		comment.Likes, liked = relation.Toggle(comment.Likes, userID)
		comment.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, comment)
	})
	if err != nil {
		return nil, false, err
	}

	service.logger.InfoContext(ctx, "comment_like_toggled",
		slog.String("comment_id", id),
		slog.String("user_id", userID),
		slog.Bool("liked", liked),
	)
	return comment, liked, nil
}

// ReplaceLikes swaps the whole like set. A repeated ID is rejected with Conflict and nothing changes.
func (service *Service) ReplaceLikes(ctx context.Context, id string, likes []string) (*Comment, error) {
	if err := validate.ID("id", id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.UUIDs(FieldLikes, likes).Err(); err != nil {
		return nil, err
	}

	var comment *Comment
	err := service.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if comment, err = service.repo.Lock(ctx, id); err != nil {
			return err
		}

		var change relation.Change
		if comment.Likes, change, err = relation.Replace(comment.Likes, likes); err != nil {
			return err
		}
		if change.Empty() {
			return nil
		}

		comment.UpdatedAt = service.now().UTC()
		return service.repo.Update(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// # Helpers

func ref(id string) relation.Ref {
	return relation.Ref{Kind: relation.KindComment, ID: id}
}

func normalize(content string) (string, error) {
	content = sanitize.Plain(content)

	validator := &validate.Validator{}
	validator.
		Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxContentLength)
	return content, validator.Err()
}
