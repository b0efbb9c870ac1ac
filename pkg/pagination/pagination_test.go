// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=-2&limit=abc", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?limit=5000", pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/blogs"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

func TestParams_Window(t *testing.T) {
	params := pagination.Params{Page: 2, Limit: 8}

	start, end := params.Window(10)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)

	start, end = pagination.Params{Page: 5, Limit: 8}.Window(10)
	assert.Equal(t, 10, start)
	assert.Equal(t, 10, end)

	meta := pagination.NewMeta(params, 10)
	assert.Equal(t, 2, meta.TotalPages)
}
