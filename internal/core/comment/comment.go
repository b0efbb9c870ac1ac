// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment holds threaded comments left on blogs by the author or by viewers.
package comment

import (
	"time"

	"github.com/taibuivan/quill/internal/core/relation"
)

// Comment is one comment or reply. Exactly one of AuthorID and ViewerID is set.
type Comment struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	BlogID   string       `json:"blog"`
	AuthorID *string      `json:"author,omitempty"`
	ViewerID *string      `json:"viewer,omitempty"`
	ParentID *string      `json:"parent_comment"`
	Replies  []string     `json:"replies"`
	Likes    relation.Set `json:"likes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal returns the author or viewer who wrote the comment.
func (comment *Comment) Principal() Principal {
	if comment.AuthorID != nil {
		return Principal{Kind: relation.KindAuthor, ID: *comment.AuthorID}
	}
	if comment.ViewerID != nil {
		return Principal{Kind: relation.KindViewer, ID: *comment.ViewerID}
	}
	return Principal{}
}

// # Principals

// Principal identifies who is acting on a comment.
type Principal struct {
	Kind relation.Kind
	ID   string
}

// principalOf adapts the caller resolved by the auth middleware.
func principalOf(ref relation.Ref) Principal {
	return Principal{Kind: ref.Kind, ID: ref.ID}
}

func (principal Principal) ref() relation.Ref {
	return relation.Ref{Kind: principal.Kind, ID: principal.ID}
}

// inverse is the back-reference list that mirrors the principal's comments.
func (principal Principal) inverse() relation.Inverse {
	if principal.Kind == relation.KindAuthor {
		return relation.AuthorComments
	}
	return relation.ViewerComments
}

const (
	FieldContent = "content"
	FieldLikes   = "likes"

	MaxContentLength = 2000
)
