// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog manages the author's posts and the relations they own.

A blog references at most one category, any number of tags and exactly one
image. Every one of those references is mirrored on the target document, and
this package is the only writer of those mirrors: each create, update and
delete runs the relation sync for category, tags and image in the same unit
of work as the blog write.

Readers only ever see published, public blogs.
*/
package blog

import (
	"time"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/validate"
)

// Blog is one post.
type Blog struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Content     string       `json:"content"`
	AuthorID    string       `json:"author"`
	ImageFileID *string      `json:"image_file"`
	CategoryID  *string      `json:"category"`
	Tags        relation.Set `json:"tags"`
	Likes       relation.Set `json:"likes"`
	Comments    []string     `json:"comments"`
	IsPrivate   bool         `json:"is_private"`
	IsPublished bool         `json:"is_published"`
	PublishedAt *time.Time   `json:"published_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Public reports whether readers may see the blog.
func (blog *Blog) Public() bool {
	return blog.IsPublished && !blog.IsPrivate
}

// # Publishing

// Action is the publish intent sent with every create and update.
type Action string

const (
	// ActionSave stores the blog as a draft.
	ActionSave Action = "save"

	// ActionPublish makes the blog visible and stamps PublishedAt the first time.
	ActionPublish Action = "publish"
)

// ParseAction validates the action path segment.
func ParseAction(raw string) (Action, error) {
	action := Action(raw)
	if action != ActionSave && action != ActionPublish {
		return "", validate.FieldError(FieldAction, "Must be one of: save, publish")
	}
	return action, nil
}

// apply sets the publish state for action. PublishedAt is set once and never moved.
func (action Action) apply(blog *Blog, now time.Time) {
	blog.IsPublished = action == ActionPublish
	if blog.IsPublished && blog.PublishedAt == nil {
		published := now
		blog.PublishedAt = &published
	}
}

// # Listing

// Sort orders published listings.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortTitle  Sort = "title"
)

// ParseSort falls back to [SortNewest] for unknown values.
func ParseSort(raw string) Sort {
	switch sort := Sort(raw); sort {
	case SortOldest, SortTitle:
		return sort
	default:
		return SortNewest
	}
}

// Filter narrows blog listings and counts.
type Filter struct {
	// PublicOnly keeps published, non-private blogs.
	PublicOnly bool

	CategoryID    string
	TagID         string
	Uncategorized bool
	Sort          Sort
}

// Stats are the cached public counters.
type Stats struct {
	Published     int `json:"published"`
	Uncategorized int `json:"uncategorized"`
}

const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldCategory = "category"
	FieldTags     = "tags"
	FieldLikes    = "likes"
	FieldAction   = "action"

	MaxTitleLength = 200
	MaxTags        = 20
)
