// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memdb

import (
	"cmp"
	"context"
	"slices"

	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/platform/apperr"
)

// Comments implements [comment.Repository].
type Comments struct{ db *DB }

// Comments returns the comment collection.
func (db *DB) Comments() *Comments { return &Comments{db: db} }

func cloneComment(doc *comment.Comment) *comment.Comment {
	copied := *doc
	copied.AuthorID = clonePtr(doc.AuthorID)
	copied.ViewerID = clonePtr(doc.ViewerID)
	copied.ParentID = clonePtr(doc.ParentID)
	copied.Replies = cloneList(doc.Replies)
	copied.Likes = doc.Likes.Clone()
	return &copied
}

func (repo *Comments) Create(_ context.Context, doc *comment.Comment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.comments[doc.ID]; ok {
		return apperr.Conflict("Comment already exists")
	}
	repo.db.comments[doc.ID] = cloneComment(doc)
	return nil
}

func (repo *Comments) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	return cloneComment(doc), nil
}

func (repo *Comments) Lock(ctx context.Context, id string) (*comment.Comment, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Comments) List(_ context.Context, blogID string) ([]*comment.Comment, error) {
	return repo.where(func(doc *comment.Comment) bool { return blogID == "" || doc.BlogID == blogID }), nil
}

func (repo *Comments) ListReplies(_ context.Context, parentID string) ([]*comment.Comment, error) {
	return repo.where(func(doc *comment.Comment) bool { return doc.ParentID != nil && *doc.ParentID == parentID }), nil
}

func (repo *Comments) Update(_ context.Context, doc *comment.Comment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.comments[doc.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Content = doc.Content
	stored.Likes = doc.Likes.Clone()
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (repo *Comments) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repo.db.comments, id)
	return nil
}

func (repo *Comments) where(match func(doc *comment.Comment) bool) []*comment.Comment {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	comments := make([]*comment.Comment, 0)
	for _, doc := range repo.db.comments {
		if match(doc) {
			comments = append(comments, cloneComment(doc))
		}
	}
	slices.SortFunc(comments, func(a, b *comment.Comment) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return comments
}
