// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	Content   string
	BlogID    string
	AuthorID  string
	ViewerID  string
	ParentID  string
	Replies   string
	Likes     string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	Content:   "content",
	BlogID:    "blogid",
	AuthorID:  "authorid",
	ViewerID:  "viewerid",
	ParentID:  "parentid",
	Replies:   "replies",
	Likes:     "likes",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns lists every column in scan order.
func (s SocialCommentTable) Columns() []string {
	return []string{s.ID, s.Content, s.BlogID, s.AuthorID, s.ViewerID, s.ParentID, s.Replies, s.Likes, s.CreatedAt, s.UpdatedAt}
}
