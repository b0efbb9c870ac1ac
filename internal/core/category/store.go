// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository persists categories.
//
// FindByName matches case-insensitively. The listing queries only return
// categories with at least one published, public blog.
type Repository interface {
	Create(context context.Context, category *Category) error
	FindByID(context context.Context, id string) (*Category, error)
	FindByName(context context.Context, name string) (*Category, error)
	Lock(context context.Context, id string) (*Category, error)
	List(context context.Context) ([]*Category, error)
	Update(context context.Context, category *Category) error
	Delete(context context.Context, id string) error

	ListWithPublishedBlogs(context context.Context) ([]*Listing, error)
	ListWithLatestBlogs(context context.Context, limit int) ([]*Listing, error)
}
