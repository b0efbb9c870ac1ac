// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"malformed uuid", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"}), apperr.CodeValidation},
		{"other", errors.New("syntax error"), apperr.CodeInternal},
		{"already classified", apperr.Forbidden("nope"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "Tag"), tt.code))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "Tag"))
}
