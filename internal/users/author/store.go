// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

// Repository persists the author.
type Repository interface {
	// Create fails with Conflict when an author already exists.
	Create(ctx context.Context, author *Author) error

	// Find returns the author, or NotFound before one has registered.
	Find(ctx context.Context) (*Author, error)

	FindByID(ctx context.Context, id string) (*Author, error)
	Lock(ctx context.Context, id string) (*Author, error)

	// Update writes the profile fields and the image reference.
	Update(ctx context.Context, author *Author) error
}
