// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package viewer manages reader accounts that comment on and like blogs.
package viewer

import "time"

// Viewer is a registered reader.
type Viewer struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Comments     []string `json:"comments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldName            = "name"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"

	MaxNameLength     = 60
	MinUsernameLength = 4
	MaxUsernameLength = 20
)
