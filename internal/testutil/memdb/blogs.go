// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memdb

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/pkg/pagination"
)

// Blogs implements [blog.Repository].
type Blogs struct{ db *DB }

// Blogs returns the blog collection.
func (db *DB) Blogs() *Blogs { return &Blogs{db: db} }

func cloneBlog(doc *blog.Blog) *blog.Blog {
	copied := *doc
	copied.ImageFileID = clonePtr(doc.ImageFileID)
	copied.CategoryID = clonePtr(doc.CategoryID)
	copied.Tags = doc.Tags.Clone()
	copied.Likes = doc.Likes.Clone()
	copied.Comments = cloneList(doc.Comments)
	copied.PublishedAt = clonePtr(doc.PublishedAt)
	return &copied
}

func (repo *Blogs) Create(_ context.Context, doc *blog.Blog) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.blogs[doc.ID]; ok {
		return apperr.Conflict("Blog already exists")
	}
	for _, existing := range repo.db.blogs {
		if existing.Slug == doc.Slug {
			return apperr.Conflict("Blog already exists")
		}
	}
	repo.db.blogs[doc.ID] = cloneBlog(doc)
	return nil
}

func (repo *Blogs) FindByID(_ context.Context, id string) (*blog.Blog, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.blogs[id]
	if !ok {
		return nil, apperr.NotFound("Blog")
	}
	return cloneBlog(doc), nil
}

func (repo *Blogs) FindBySlug(_ context.Context, slug string) (*blog.Blog, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, doc := range repo.db.blogs {
		if doc.Slug == slug {
			return cloneBlog(doc), nil
		}
	}
	return nil, apperr.NotFound("Blog")
}

func (repo *Blogs) Lock(ctx context.Context, id string) (*blog.Blog, error) {
	return repo.FindByID(ctx, id)
}

// Update keeps the stored comment list, which only back-reference writes touch.
func (repo *Blogs) Update(_ context.Context, doc *blog.Blog) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.blogs[doc.ID]
	if !ok {
		return apperr.NotFound("Blog")
	}
	for id, existing := range repo.db.blogs {
		if id != doc.ID && existing.Slug == doc.Slug {
			return apperr.Conflict("Blog already exists")
		}
	}

	updated := cloneBlog(doc)
	updated.Comments = stored.Comments
	repo.db.blogs[doc.ID] = updated
	return nil
}

func (repo *Blogs) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.blogs[id]; !ok {
		return apperr.NotFound("Blog")
	}
	delete(repo.db.blogs, id)
	return nil
}

func (repo *Blogs) List(_ context.Context, filter blog.Filter, page pagination.Params) ([]*blog.Blog, int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	matched := repo.filter(filter)
	slices.SortFunc(matched, order(filter.Sort))

	start, end := page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (repo *Blogs) Count(_ context.Context, filter blog.Filter) (int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	return len(repo.filter(filter)), nil
}

func (repo *Blogs) filter(filter blog.Filter) []*blog.Blog {
	matched := make([]*blog.Blog, 0)
	for _, doc := range repo.db.blogs {
		switch {
		case filter.PublicOnly && !doc.Public():
			continue
		case filter.Uncategorized && doc.CategoryID != nil:
			continue
		case !filter.Uncategorized && filter.CategoryID != "" && (doc.CategoryID == nil || *doc.CategoryID != filter.CategoryID):
			continue
		case filter.TagID != "" && !doc.Tags.Has(filter.TagID):
			continue
		}
		matched = append(matched, cloneBlog(doc))
	}
	return matched
}

func order(sort blog.Sort) func(a, b *blog.Blog) int {
	published := func(doc *blog.Blog) int64 {
		if doc.PublishedAt == nil {
			return 0
		}
		return doc.PublishedAt.UnixNano()
	}

	switch sort {
	case blog.SortTitle:
		return func(a, b *blog.Blog) int {
			return cmp.Or(cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)), cmp.Compare(a.ID, b.ID))
		}
	case blog.SortOldest:
		return func(a, b *blog.Blog) int {
			return cmp.Or(cmp.Compare(published(a), published(b)), a.CreatedAt.Compare(b.CreatedAt))
		}
	default:
		return func(a, b *blog.Blog) int {
			return cmp.Or(cmp.Compare(published(b), published(a)), b.CreatedAt.Compare(a.CreatedAt))
		}
	}
}
