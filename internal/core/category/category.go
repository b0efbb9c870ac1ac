// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category manages the single category a blog may belong to.

Category names are unique regardless of case. Blogs mirrors every blog whose
category points here and is maintained by the blog service; a category that
still lists blogs cannot be deleted.
*/
package category

import "time"

// Category groups blogs under one heading.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageFileID *string   `json:"image_file"`
	Blogs       []string  `json:"blogs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlogSummary is the slice of a published blog embedded in category listings.
type BlogSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	ImageFileID *string    `json:"image_file"`
	PublishedAt *time.Time `json:"published_at"`
}

// Listing is a category together with its published blogs.
type Listing struct {
	Category
	PublishedBlogs int           `json:"published_blogs"`
	LatestBlogs    []BlogSummary `json:"latest_blogs,omitempty"`
}

const (
	FieldName        = "name"
	FieldDescription = "description"

	MaxNameLength        = 60
	MaxDescriptionLength = 500

	// DefaultLatestBlogs is how many blogs each category embeds in the latest listing.
	DefaultLatestBlogs = 3
)
