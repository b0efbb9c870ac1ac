// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memdb

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/platform/apperr"
)

// # Categories

// Categories implements [category.Repository].
type Categories struct{ db *DB }

// Categories returns the category collection.
func (db *DB) Categories() *Categories { return &Categories{db: db} }

func cloneCategory(doc *category.Category) *category.Category {
	copied := *doc
	copied.ImageFileID = clonePtr(doc.ImageFileID)
	copied.Blogs = cloneList(doc.Blogs)
	return &copied
}

func (repo *Categories) Create(_ context.Context, doc *category.Category) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.categories {
		if existing.ID == doc.ID || strings.EqualFold(existing.Name, doc.Name) {
			return apperr.Conflict("Category already exists")
		}
	}
	repo.db.categories[doc.ID] = cloneCategory(doc)
	return nil
}

func (repo *Categories) FindByID(_ context.Context, id string) (*category.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return cloneCategory(doc), nil
}

func (repo *Categories) FindByName(_ context.Context, name string) (*category.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, doc := range repo.db.categories {
		if strings.EqualFold(doc.Name, name) {
			return cloneCategory(doc), nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (repo *Categories) Lock(ctx context.Context, id string) (*category.Category, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Categories) List(_ context.Context) ([]*category.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	categories := make([]*category.Category, 0, len(repo.db.categories))
	for _, doc := range repo.db.categories {
		categories = append(categories, cloneCategory(doc))
	}
	slices.SortFunc(categories, func(a, b *category.Category) int { return cmp.Compare(a.Name, b.Name) })
	return categories, nil
}

// Update writes everything but the blog list.
func (repo *Categories) Update(_ context.Context, doc *category.Category) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.categories[doc.ID]
	if !ok {
		return apperr.NotFound("Category")
	}

	updated := cloneCategory(doc)
	updated.Blogs = stored.Blogs
	updated.CreatedAt = stored.CreatedAt
	repo.db.categories[doc.ID] = updated
	return nil
}

func (repo *Categories) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.categories[id]; !ok {
		return apperr.NotFound("Category")
	}
	delete(repo.db.categories, id)
	return nil
}

func (repo *Categories) ListWithPublishedBlogs(ctx context.Context) ([]*category.Listing, error) {
	return repo.listings(0)
}

func (repo *Categories) ListWithLatestBlogs(ctx context.Context, limit int) ([]*category.Listing, error) {
	return repo.listings(limit)
}

// listings groups public blogs by category. A positive limit embeds that many of the newest.
func (repo *Categories) listings(limit int) ([]*category.Listing, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	published := map[string][]*blog.Blog{}
	for _, doc := range repo.db.blogs {
		if doc.Public() && doc.CategoryID != nil {
			published[*doc.CategoryID] = append(published[*doc.CategoryID], doc)
		}
	}

	listings := make([]*category.Listing, 0)
	for id, doc := range repo.db.categories {
		blogs := published[id]
		if len(blogs) == 0 {
			continue
		}

		listing := &category.Listing{Category: *cloneCategory(doc), PublishedBlogs: len(blogs)}
		if limit > 0 {
			slices.SortFunc(blogs, order(blog.SortNewest))
			for _, recent := range blogs[:min(limit, len(blogs))] {
				listing.LatestBlogs = append(listing.LatestBlogs, category.BlogSummary{
					ID:          recent.ID,
					Title:       recent.Title,
					Slug:        recent.Slug,
					ImageFileID: clonePtr(recent.ImageFileID),
					PublishedAt: clonePtr(recent.PublishedAt),
				})
			}
		}
		listings = append(listings, listing)
	}

	slices.SortFunc(listings, func(a, b *category.Listing) int { return cmp.Compare(a.Name, b.Name) })
	return listings, nil
}

// # Tags

// Tags implements [tag.Repository].
type Tags struct{ db *DB }

// Tags returns the tag collection.
func (db *DB) Tags() *Tags { return &Tags{db: db} }

func cloneTag(doc *tag.Tag) *tag.Tag {
	copied := *doc
	copied.Blogs = cloneList(doc.Blogs)
	return &copied
}

func (repo *Tags) Create(_ context.Context, doc *tag.Tag) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.tags {
		if existing.ID == doc.ID || existing.Name == doc.Name {
			return apperr.Conflict("Tag already exists")
		}
	}
	repo.db.tags[doc.ID] = cloneTag(doc)
	return nil
}

func (repo *Tags) FindByID(_ context.Context, id string) (*tag.Tag, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	doc, ok := repo.db.tags[id]
	if !ok {
		return nil, apperr.NotFound("Tag")
	}
	return cloneTag(doc), nil
}

func (repo *Tags) FindByName(_ context.Context, name string) (*tag.Tag, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, doc := range repo.db.tags {
		if doc.Name == name {
			return cloneTag(doc), nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (repo *Tags) Lock(ctx context.Context, id string) (*tag.Tag, error) {
	return repo.FindByID(ctx, id)
}

func (repo *Tags) List(_ context.Context) ([]*tag.Tag, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	tags := make([]*tag.Tag, 0, len(repo.db.tags))
	for _, doc := range repo.db.tags {
		tags = append(tags, cloneTag(doc))
	}
	slices.SortFunc(tags, func(a, b *tag.Tag) int { return cmp.Compare(a.Name, b.Name) })
	return tags, nil
}

func (repo *Tags) Update(_ context.Context, doc *tag.Tag) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.tags[doc.ID]
	if !ok {
		return apperr.NotFound("Tag")
	}
	stored.Name = doc.Name
	stored.Slug = doc.Slug
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (repo *Tags) Delete(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tags[id]; !ok {
		return apperr.NotFound("Tag")
	}
	delete(repo.db.tags, id)
	return nil
}
