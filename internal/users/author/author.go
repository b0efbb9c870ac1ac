// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package author manages the single author who owns the blog.
package author

import "time"

// Author is the one principal allowed to write blogs.
type Author struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Bio          string   `json:"bio"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	ImageFileID  *string  `json:"image_file"`
	Comments     []string `json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldName     = "name"
	FieldBio      = "bio"
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldLogin    = "login"

	MaxNameLength = 60
	MaxBioLength  = 1000
)
