// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/validate"
)

const validID = "0190f3c4-8a2b-7c3d-9e4f-5a6b7c8d9e0f"

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Quill", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if !tt.hasError {
				assert.NoError(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "name", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_ViewerUsername checks the username rules used at registration.
*/
func TestValidator_ViewerUsername(t *testing.T) {
	tests := []struct {
		username string
		isValid  bool
	}{
		{"reader42", true},
		{"abc", false},
		{"abcdefghijklmnopqrstu", false},
		{"with space", false},
		{"dash-ed", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			v := &validate.Validator{}
			v.MinLen("username", tt.username, 4).MaxLen("username", tt.username, 20).Alphanumeric("username", tt.username)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_IDs checks single, optional and list ID validation.
*/
func TestValidator_IDs(t *testing.T) {
	v := &validate.Validator{}
	v.UUID("category", validID).OptionalUUID("image", nil).UUIDs("tags", []string{validID})
	assert.NoError(t, v.Err())

	v = &validate.Validator{}
	v.UUIDs("tags", []string{validID, "tech", "also-bad"})
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 1)
	assert.Contains(t, ae.Details[0].Message, "tech")

	assert.NoError(t, validate.ID("id", validID))
	ae = apperr.As(validate.ID("id", "not-a-uuid"))
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, "id", ae.Details[0].Field)
}

func TestValidator_OneOfAndCustom(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("action", "publish", "save", "publish").
		Custom("image", true, "An image is required").
		Email("email", "author@quill.blog")

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "image", ae.Details[0].Field)
}

/*
TestValidator_URL verifies credit links must be absolute web URLs when given.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"empty_is_optional", "", false},
		{"https", "https://unsplash.com/@someone", false},
		{"http", "http://example.org/photo", false},
		{"relative", "/photos/1", true},
		{"javascript", "javascript:alert(1)", true},
		{"ftp", "ftp://example.org/a.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("credit_author_url", tt.value)
			assert.Equal(t, tt.hasError, v.HasErrors())
		})
	}
}
