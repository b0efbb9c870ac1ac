// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go: Concurrency & Channels!  ", "go-concurrency-channels"},
		{"Café Crème", "cafe-creme"},
		{"Tiếng Việt", "tieng-viet"},
		{"Привет мир", "privet-mir"},
		{"---", ""},
		{"v1.2.3 release", "v1-2-3-release"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
