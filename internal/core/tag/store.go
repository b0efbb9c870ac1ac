// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository persists tags.
//
// FindByName returns NotFound when no tag has exactly that (lowercase) name.
// Lock returns the tag and, inside a transaction, holds its row until commit.
type Repository interface {
	Create(context context.Context, tag *Tag) error
	FindByID(context context.Context, id string) (*Tag, error)
	FindByName(context context.Context, name string) (*Tag, error)
	Lock(context context.Context, id string) (*Tag, error)
	List(context context.Context) ([]*Tag, error)
	Update(context context.Context, tag *Tag) error
	Delete(context context.Context, id string) error
}
