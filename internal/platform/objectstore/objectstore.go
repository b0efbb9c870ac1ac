// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore stores image binaries in an S3-compatible bucket.

The image-file documents only carry the object key; the bytes live here.
Any S3 API works: AWS itself, Cloudflare R2 or MinIO via a custom endpoint.
*/
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when the key does not exist in the bucket.
var ErrObjectNotFound = errors.New("objectstore: object not found")

// Object is a readable stored binary. Callers must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Store is the binary storage used by the image-file service.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
