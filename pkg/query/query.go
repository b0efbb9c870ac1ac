// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses loosely typed values from query strings and multipart form fields.
package query

import (
	"strconv"
	"strings"
)

// StringSlice splits a comma-separated value into a trimmed slice of strings.
// Repeated form values are flattened as well, so both "a,b" and "a&b" work.
func StringSlice(vals ...string) []string {
	var res []string
	for _, val := range vals {
		for _, v := range strings.Split(val, ",") {
			clean := strings.TrimSpace(v)
			if clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}

// Bool parses "true"/"false"/"1"/"0", returning def when empty or malformed.
func Bool(val string, def bool) bool {
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

// Int parses an integer, returning def when empty or malformed.
func Int(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
