// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersViewerTable represents the 'users.viewer' table
type UsersViewerTable struct {
	Table        string
	ID           string
	Name         string
	Username     string
	PasswordHash string
	Comments     string
	CreatedAt    string
	UpdatedAt    string
}

// UsersViewer is the schema definition for users.viewer
var UsersViewer = UsersViewerTable{
	Table:        "users.viewer",
	ID:           "id",
	Name:         "name",
	Username:     "username",
	PasswordHash: "passwordhash",
	Comments:     "comments",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns lists every column in scan order.
func (u UsersViewerTable) Columns() []string {
	return []string{u.ID, u.Name, u.Username, u.PasswordHash, u.Comments, u.CreatedAt, u.UpdatedAt}
}
