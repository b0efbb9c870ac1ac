// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/internal/platform/sanitize"
)

func TestRich(t *testing.T) {
	out := sanitize.Rich(`<p onclick="x()">Hi <b>there</b><script>alert(1)</script></p>`)

	assert.Contains(t, out, "<b>there</b>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")

	code := sanitize.Rich(`<pre><code class="language-go">fmt.Println()</code></pre>`)
	assert.Contains(t, code, `class="language-go"`)
}

func TestPlain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  nice post  ", "nice post"},
		{"<b>bold</b> & <i>brave</i>", "bold & brave"},
		{"<script>alert(1)</script>", ""},
		{"5 < 6", "5 < 6"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.Plain(tt.input))
		})
	}
}
