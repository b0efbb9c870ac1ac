// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package optional models tri-state JSON fields for partial updates.

A [Field] distinguishes three request shapes:

  - key absent:        Set == false
  - key set to null:   Set == true, Value == nil
  - key set to value:  Set == true, Value != nil

This is what lets a blog update clear its category with `"category": null`
while leaving it alone when the key is omitted.
*/
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it was present in the payload.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Of returns a Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only invoked when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	f.Value = &value
	return nil
}

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer, returning the zero value if nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
