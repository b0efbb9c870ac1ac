// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package imagefile

import "context"

// Repository persists image-file documents.
type Repository interface {
	Create(context context.Context, image *ImageFile) error
	FindByID(context context.Context, id string) (*ImageFile, error)
	Lock(context context.Context, id string) (*ImageFile, error)
	List(context context.Context) ([]*ImageFile, error)
	UpdateCredit(context context.Context, id string, credit Credit) error
	Delete(context context.Context, id string) error
}
