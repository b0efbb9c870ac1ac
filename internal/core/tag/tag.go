// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag manages the free-form labels attached to blogs.

Tag names are stored lowercase and are unique. Each tag mirrors the blogs
that carry it in Blogs, which is maintained by the blog service and never
written directly by this package.
*/
package tag

import "time"

// Tag is a lowercase label shared by many blogs.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Blogs     []string  `json:"blogs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldName = "name"

	// MaxNameLength bounds a tag name after normalization.
	MaxNameLength = 50
)
