// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreCategoryTable represents the 'core.category' table
type CoreCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	ImageFileID string
	Blogs       string
	CreatedAt   string
	UpdatedAt   string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = CoreCategoryTable{
	Table:       "core.category",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	ImageFileID: "imagefileid",
	Blogs:       "blogs",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns lists every column in scan order.
func (c CoreCategoryTable) Columns() []string {
	return []string{c.ID, c.Name, c.Slug, c.Description, c.ImageFileID, c.Blogs, c.CreatedAt, c.UpdatedAt}
}
