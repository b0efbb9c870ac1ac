// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository persists comments.
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)

	// Lock reads the comment and holds it until the surrounding transaction ends.
	Lock(ctx context.Context, id string) (*Comment, error)

	// List returns comments oldest first. An empty blogID lists every comment.
	List(ctx context.Context, blogID string) ([]*Comment, error)

	// ListReplies returns the direct replies to parentID, oldest first.
	ListReplies(ctx context.Context, parentID string) ([]*Comment, error)

	// Update writes the content, likes and update time.
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id string) error
}
