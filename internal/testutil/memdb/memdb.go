// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memdb is an in-memory document store for service tests.

One [DB] holds every collection. Typed repositories are views over it, and
the DB itself implements [relation.Store] and [relation.Index] so the
back-reference writes of the services land on the same documents the
repositories read. Writes are applied one document at a time with no
transactions; [DB.FailWrites] makes individual reference writes fail so
tests can observe partially applied changes.
*/
package memdb

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/taibuivan/quill/internal/core/blog"
	"github.com/taibuivan/quill/internal/core/category"
	"github.com/taibuivan/quill/internal/core/comment"
	"github.com/taibuivan/quill/internal/core/imagefile"
	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/core/tag"
	"github.com/taibuivan/quill/internal/users/author"
	"github.com/taibuivan/quill/internal/users/viewer"
)

// Op names a reference write for [DB.FailWrites].
type Op string

const (
	OpPush  Op = "push"
	OpPull  Op = "pull"
	OpUnset Op = "unset"
)

// DB holds every collection behind one lock.
type DB struct {
	mu sync.Mutex

	blogs      map[string]*blog.Blog
	categories map[string]*category.Category
	tags       map[string]*tag.Tag
	images     map[string]*imagefile.ImageFile
	comments   map[string]*comment.Comment
	authors    map[string]*author.Author
	viewers    map[string]*viewer.Viewer

	fail func(op Op, target relation.Ref) error
}

// New creates an empty [DB].
func New() *DB {
	return &DB{
		blogs:      map[string]*blog.Blog{},
		categories: map[string]*category.Category{},
		tags:       map[string]*tag.Tag{},
		images:     map[string]*imagefile.ImageFile{},
		comments:   map[string]*comment.Comment{},
		authors:    map[string]*author.Author{},
		viewers:    map[string]*viewer.Viewer{},
	}
}

// FailWrites makes Push, Pull and Unset return the error fn gives for a target.
// A nil error lets the write through. Pass nil to clear.
func (db *DB) FailWrites(fn func(op Op, target relation.Ref) error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail = fn
}

// # relation.Store

func (db *DB) Exists(_ context.Context, target relation.Ref) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.exists(target)
}

func (db *DB) Push(_ context.Context, target relation.Ref, field relation.Field, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.injected(OpPush, target); err != nil {
		return err
	}
	list, err := db.list(target, field)
	if err != nil {
		return err
	}
	if !slices.Contains(*list, value) {
		*list = append(*list, value)
	}
	return nil
}

func (db *DB) Pull(_ context.Context, target relation.Ref, field relation.Field, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.injected(OpPull, target); err != nil {
		return err
	}
	list, err := db.list(target, field)
	if err != nil {
		return err
	}
	*list = slices.DeleteFunc(*list, func(item string) bool { return item == value })
	return nil
}

func (db *DB) Unset(_ context.Context, target relation.Ref, field relation.Field, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.injected(OpUnset, target); err != nil {
		return err
	}
	if field != relation.FieldImageFile {
		return fmt.Errorf("memdb: %s has no single-valued field %q", target.Kind, field)
	}

	var slot **string
	switch target.Kind {
	case relation.KindBlog:
		if doc, ok := db.blogs[target.ID]; ok {
			slot = &doc.ImageFileID
		}
	case relation.KindCategory:
		if doc, ok := db.categories[target.ID]; ok {
			slot = &doc.ImageFileID
		}
	case relation.KindAuthor:
		if doc, ok := db.authors[target.ID]; ok {
			slot = &doc.ImageFileID
		}
	default:
		return fmt.Errorf("memdb: %s has no image field", target.Kind)
	}

	if slot == nil {
		return relation.ErrTargetMissing
	}
	if *slot != nil && **slot == value {
		*slot = nil
	}
	return nil
}

// # relation.Index

func (db *DB) Forward(_ context.Context, inverse relation.Inverse) (map[relation.Ref]relation.Set, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	forward := map[relation.Ref]relation.Set{}
	switch inverse {
	case relation.CategoryBlogs:
		for id, doc := range db.blogs {
			if doc.CategoryID != nil {
				forward[relation.Ref{Kind: relation.KindBlog, ID: id}] = relation.Optional(doc.CategoryID)
			}
		}
	case relation.TagBlogs:
		for id, doc := range db.blogs {
			forward[relation.Ref{Kind: relation.KindBlog, ID: id}] = doc.Tags.Clone()
		}
	case relation.ImageReferences:
		for id, doc := range db.blogs {
			if doc.ImageFileID != nil {
				forward[relation.Ref{Kind: relation.KindBlog, ID: id}] = relation.Optional(doc.ImageFileID)
			}
		}
		for id, doc := range db.categories {
			if doc.ImageFileID != nil {
				forward[relation.Ref{Kind: relation.KindCategory, ID: id}] = relation.Optional(doc.ImageFileID)
			}
		}
		for id, doc := range db.authors {
			if doc.ImageFileID != nil {
				forward[relation.Ref{Kind: relation.KindAuthor, ID: id}] = relation.Optional(doc.ImageFileID)
			}
		}
	default:
		return nil, fmt.Errorf("memdb: no forward index for %s", inverse)
	}
	return forward, nil
}

func (db *DB) Backward(_ context.Context, inverse relation.Inverse) (map[string]relation.Set, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	backward := map[string]relation.Set{}
	for _, id := range db.ids(inverse.Kind) {
		list, err := db.list(relation.Ref{Kind: inverse.Kind, ID: id}, inverse.Field)
		if err != nil {
			return nil, err
		}
		backward[id] = relation.NewSet(*list...)
	}
	return backward, nil
}

// Observe reads one owner's forward reference and the targets listing it.
func (db *DB) Observe(_ context.Context, inverse relation.Inverse, owner relation.Ref) (relation.Observation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	observation := relation.Observation{Targets: relation.Set{}, ListedBy: relation.Set{}}

	exists, err := db.exists(owner)
	if err != nil {
		return observation, err
	}
	observation.Exists = exists
	if exists {
		if observation.Targets, err = db.forward(inverse, owner); err != nil {
			return observation, err
		}
	}

	value := inverse.ValueFor(owner)
	for _, id := range db.ids(inverse.Kind) {
		list, err := db.list(relation.Ref{Kind: inverse.Kind, ID: id}, inverse.Field)
		if err != nil {
			return observation, err
		}
		if slices.Contains(*list, value) {
			observation.ListedBy.Add(id)
		}
	}
	return observation, nil
}

// # Internals

func (db *DB) injected(op Op, target relation.Ref) error {
	if db.fail == nil {
		return nil
	}
	return db.fail(op, target)
}

// forward reads the targets one existing owner points at.
func (db *DB) forward(inverse relation.Inverse, owner relation.Ref) (relation.Set, error) {
	switch {
	case inverse == relation.CategoryBlogs && owner.Kind == relation.KindBlog:
		return relation.Optional(db.blogs[owner.ID].CategoryID), nil
	case inverse == relation.TagBlogs && owner.Kind == relation.KindBlog:
		return db.blogs[owner.ID].Tags.Clone(), nil
	case inverse == relation.ImageReferences:
		switch owner.Kind {
		case relation.KindBlog:
			return relation.Optional(db.blogs[owner.ID].ImageFileID), nil
		case relation.KindCategory:
			return relation.Optional(db.categories[owner.ID].ImageFileID), nil
		case relation.KindAuthor:
			return relation.Optional(db.authors[owner.ID].ImageFileID), nil
		}
	}
	return nil, fmt.Errorf("memdb: %s cannot own %s", owner.Kind, inverse)
}

func (db *DB) exists(target relation.Ref) (bool, error) {
	switch target.Kind {
	case relation.KindBlog:
		_, ok := db.blogs[target.ID]
		return ok, nil
	case relation.KindCategory:
		_, ok := db.categories[target.ID]
		return ok, nil
	case relation.KindTag:
		_, ok := db.tags[target.ID]
		return ok, nil
	case relation.KindImageFile:
		_, ok := db.images[target.ID]
		return ok, nil
	case relation.KindComment:
		_, ok := db.comments[target.ID]
		return ok, nil
	case relation.KindAuthor:
		_, ok := db.authors[target.ID]
		return ok, nil
	case relation.KindViewer:
		_, ok := db.viewers[target.ID]
		return ok, nil
	}
	return false, fmt.Errorf("memdb: unknown kind %q", target.Kind)
}

func (db *DB) ids(kind relation.Kind) []string {
	var ids []string
	switch kind {
	case relation.KindBlog:
		ids = keys(db.blogs)
	case relation.KindCategory:
		ids = keys(db.categories)
	case relation.KindTag:
		ids = keys(db.tags)
	case relation.KindImageFile:
		ids = keys(db.images)
	case relation.KindComment:
		ids = keys(db.comments)
	case relation.KindAuthor:
		ids = keys(db.authors)
	case relation.KindViewer:
		ids = keys(db.viewers)
	}
	return ids
}

// list addresses a back-reference list in place. A missing document is [relation.ErrTargetMissing].
func (db *DB) list(target relation.Ref, field relation.Field) (*[]string, error) {
	type key struct {
		kind  relation.Kind
		field relation.Field
	}

	switch (key{target.Kind, field}) {
	case key{relation.KindCategory, relation.FieldBlogs}:
		if doc, ok := db.categories[target.ID]; ok {
			return &doc.Blogs, nil
		}
	case key{relation.KindTag, relation.FieldBlogs}:
		if doc, ok := db.tags[target.ID]; ok {
			return &doc.Blogs, nil
		}
	case key{relation.KindImageFile, relation.FieldReferencedDocs}:
		if doc, ok := db.images[target.ID]; ok {
			return &doc.ReferencedDocs, nil
		}
	case key{relation.KindBlog, relation.FieldComments}:
		if doc, ok := db.blogs[target.ID]; ok {
			return &doc.Comments, nil
		}
	case key{relation.KindComment, relation.FieldReplies}:
		if doc, ok := db.comments[target.ID]; ok {
			return &doc.Replies, nil
		}
	case key{relation.KindAuthor, relation.FieldComments}:
		if doc, ok := db.authors[target.ID]; ok {
			return &doc.Comments, nil
		}
	case key{relation.KindViewer, relation.FieldComments}:
		if doc, ok := db.viewers[target.ID]; ok {
			return &doc.Comments, nil
		}
	default:
		return nil, fmt.Errorf("memdb: %s has no reference field %q", target.Kind, field)
	}
	return nil, relation.ErrTargetMissing
}

func keys[V any](documents map[string]V) []string {
	ids := make([]string, 0, len(documents))
	for id := range documents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return slices.Clone(list)
}
