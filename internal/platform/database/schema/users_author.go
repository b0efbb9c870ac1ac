// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersAuthorTable represents the 'users.author' table
type UsersAuthorTable struct {
	Table        string
	ID           string
	Name         string
	Bio          string
	Email        string
	Username     string
	PasswordHash string
	ImageFileID  string
	Comments     string
	CreatedAt    string
	UpdatedAt    string
}

// UsersAuthor is the schema definition for users.author
var UsersAuthor = UsersAuthorTable{
	Table:        "users.author",
	ID:           "id",
	Name:         "name",
	Bio:          "bio",
	Email:        "email",
	Username:     "username",
	PasswordHash: "passwordhash",
	ImageFileID:  "imagefileid",
	Comments:     "comments",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns lists every column in scan order.
func (u UsersAuthorTable) Columns() []string {
	return []string{u.ID, u.Name, u.Bio, u.Email, u.Username, u.PasswordHash, u.ImageFileID, u.Comments, u.CreatedAt, u.UpdatedAt}
}
