// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize cleans user-supplied HTML before it is stored.
//
// Blog bodies come from the author's rich-text editor and keep formatting;
// comments and short descriptions are reduced to plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
)

func init() {
	richPolicy = bluemonday.UGCPolicy()
	// Syntax highlighting classes emitted by the editor
	richPolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	richPolicy.RequireNoFollowOnLinks(true)
	richPolicy.AddTargetBlankToFullyQualifiedLinks(true)

	plainPolicy = bluemonday.StrictPolicy()
}

// Rich keeps safe formatting markup and drops scripts, handlers and unsafe URLs.
func Rich(input string) string {
	return strings.TrimSpace(richPolicy.Sanitize(input))
}

// Plain strips every tag and returns readable text.
//
// StrictPolicy escapes entities, so they are unescaped again to keep the
// stored text as the user typed it; the API encodes it as JSON, not HTML.
func Plain(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(input)))
}
