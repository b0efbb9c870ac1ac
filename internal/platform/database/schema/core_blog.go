// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreBlogTable represents the 'core.blog' table
type CoreBlogTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Content     string
	AuthorID    string
	ImageFileID string
	CategoryID  string
	Tags        string
	Likes       string
	Comments    string
	IsPrivate   string
	IsPublished string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
}

// CoreBlog is the schema definition for core.blog
var CoreBlog = CoreBlogTable{
	Table:       "core.blog",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Content:     "content",
	AuthorID:    "authorid",
	ImageFileID: "imagefileid",
	CategoryID:  "categoryid",
	Tags:        "tags",
	Likes:       "likes",
	Comments:    "comments",
	IsPrivate:   "isprivate",
	IsPublished: "ispublished",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns lists every column in scan order.
func (c CoreBlogTable) Columns() []string {
	return []string{c.ID, c.Title, c.Slug, c.Content, c.AuthorID, c.ImageFileID, c.CategoryID, c.Tags, c.Likes, c.Comments, c.IsPrivate, c.IsPublished, c.PublishedAt, c.CreatedAt, c.UpdatedAt}
}
