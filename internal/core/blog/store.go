// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"

	"github.com/taibuivan/quill/pkg/pagination"
)

// Repository persists blogs.
//
// Update writes every owner field; the comments list is only ever changed
// through the relation store. Lock holds the row until the surrounding
// transaction ends.
type Repository interface {
	Create(context context.Context, blog *Blog) error
	FindByID(context context.Context, id string) (*Blog, error)
	FindBySlug(context context.Context, slug string) (*Blog, error)
	Lock(context context.Context, id string) (*Blog, error)
	Update(context context.Context, blog *Blog) error
	Delete(context context.Context, id string) error

	List(context context.Context, filter Filter, page pagination.Params) ([]*Blog, int, error)
	Count(context context.Context, filter Filter) (int, error)
}
