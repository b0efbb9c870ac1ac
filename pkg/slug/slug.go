// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs identify published blogs, categories and tags in URLs
// (e.g. "hello-world"). Accented Latin text is folded with NFD; scripts with
// no Latin decomposition (CJK, Cyrillic, ...) are transliterated.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and strips combining marks (é → e).
// 2. Transliterates the remaining non-ASCII runes.
// 3. Lowercases and hyphenates everything that is not [a-z0-9].
// 4. Collapses and trims hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Transliterate
	if !isASCII(result) {
		result = unidecode.Unidecode(result)
	}

	// 3. Lowercase and hyphenate
	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	// 4. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
