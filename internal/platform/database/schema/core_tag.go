// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreTagTable represents the 'core.tag' table
type CoreTagTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Blogs     string
	CreatedAt string
	UpdatedAt string
}

// CoreTag is the schema definition for core.tag
var CoreTag = CoreTagTable{
	Table:     "core.tag",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Blogs:     "blogs",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns lists every column in scan order.
func (c CoreTagTable) Columns() []string {
	return []string{c.ID, c.Name, c.Slug, c.Blogs, c.CreatedAt, c.UpdatedAt}
}
