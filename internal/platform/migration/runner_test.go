// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/quill", "pgx5://u:p@db:5432/quill"},
		{"postgresql://db/quill?sslmode=disable", "pgx5://db/quill?sslmode=disable"},
		{"pgx5://db/quill", "pgx5://db/quill"},
		{"host=db dbname=quill", "host=db dbname=quill"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
		})
	}
}
