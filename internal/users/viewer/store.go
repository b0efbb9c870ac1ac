// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import "context"

// Repository persists viewers.
type Repository interface {
	// Create fails with Conflict when the username is taken.
	Create(ctx context.Context, viewer *Viewer) error
	FindByID(ctx context.Context, id string) (*Viewer, error)

	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*Viewer, error)

	Lock(ctx context.Context, id string) (*Viewer, error)
	List(ctx context.Context) ([]*Viewer, error)

	// Update writes name, username, password hash and update time.
	Update(ctx context.Context, viewer *Viewer) error
	Delete(ctx context.Context, id string) error
}
