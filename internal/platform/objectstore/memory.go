// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory is an in-process [Store] for tests and local runs without a bucket.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memoryObject

	// Deletes counts successful Delete calls per key.
	Deletes map[string]int
	// FailDelete makes every Delete return this error when set.
	FailDelete error
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemory creates an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{objects: map[string]memoryObject{}, Deletes: map[string]int{}}
}

func (store *Memory) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (store *Memory) Get(_ context.Context, key string) (*Object, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	object, ok := store.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &Object{
		Body:          io.NopCloser(bytes.NewReader(object.data)),
		ContentType:   object.contentType,
		ContentLength: int64(len(object.data)),
	}, nil
}

func (store *Memory) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.FailDelete != nil {
		return store.FailDelete
	}
	delete(store.objects, key)
	store.Deletes[key]++
	return nil
}

// Has reports whether key is stored.
func (store *Memory) Has(key string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.objects[key]
	return ok
}
