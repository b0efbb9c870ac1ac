// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/internal/platform/apperr"
)

/*
TestAppError_StatusMapping verifies the HTTP status and code of each constructor.
*/
func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not found", apperr.NotFound("Blog"), http.StatusNotFound, apperr.CodeNotFound},
		{"precondition", apperr.PreconditionFailed("still referenced"), http.StatusBadRequest, apperr.CodePreconditionFailed},
		{"duplicate like", apperr.DuplicateLike("u1"), http.StatusConflict, apperr.CodeDuplicateLike},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"partial", apperr.PartialConsistency(errors.New("boom")), http.StatusInternalServerError, apperr.CodePartialConsistency},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_Unwrap verifies that wrapped app errors are still discoverable.
*/
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("sync tags: %w", apperr.PartialConsistency(cause))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodePartialConsistency))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "Blog not found", apperr.NotFound("Blog").Error())
	assert.Nil(t, apperr.As(cause))
}

/*
TestAppError_WithCause verifies that the shared sentinel is not mutated.
*/
func TestAppError_WithCause(t *testing.T) {
	base := apperr.NotFound("Tag")
	clone := base.WithCause(errors.New("no rows"))

	assert.Nil(t, base.Cause)
	assert.NotNil(t, clone.Cause)
	assert.Equal(t, base.Message, clone.Message)
}
