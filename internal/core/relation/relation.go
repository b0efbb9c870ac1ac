// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package relation keeps the denormalized back-references between Quill
documents consistent.

Every relation is stored twice: a forward reference on the owner (a blog's
category, its tags, its image) and a back-reference list on the target (the
category's blogs, the image's referenced documents). The package provides:

  - [Syncer.Sync]: diff an owner's old and new forward references and push or
    pull the owner on each affected target.
  - [Syncer.Cascade] and [Syncer.ClearReferences]: remove an owner from every
    target it pointed at, or clear the forward field on every owner of a
    target, when a document is deleted.
  - [Guard]: refuse a delete while back-references remain.
  - [Toggle] and [Replace]: like-set maintenance.
  - [Reconciler]: recompute back-references from forward references and repair drift.
*/
package relation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// # Documents

// Kind names a document collection.
type Kind string

const (
	KindBlog      Kind = "blog"
	KindCategory  Kind = "category"
	KindTag       Kind = "tag"
	KindImageFile Kind = "image_file"
	KindComment   Kind = "comment"
	KindAuthor    Kind = "author"
	KindViewer    Kind = "viewer"
)

// Ref is a tagged reference to one document.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// String encodes the reference as "kind:id", the form stored in tagged lists.
func (r Ref) String() string {
	return string(r.Kind) + ":" + r.ID
}

// ParseRef decodes the "kind:id" form produced by [Ref.String].
func ParseRef(s string) (Ref, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || kind == "" || id == "" {
		return Ref{}, fmt.Errorf("relation: malformed reference %q", s)
	}
	return Ref{Kind: Kind(kind), ID: id}, nil
}

// Field names a reference-carrying field on a document.
type Field string

const (
	FieldBlogs          Field = "blogs"
	FieldReferencedDocs Field = "referenced_docs"
	FieldComments       Field = "comments"
	FieldReplies        Field = "replies"
	FieldImageFile      Field = "image_file"
)

// # Inverses

// Inverse describes where an owner is mirrored: the list Field on documents of Kind.
//
// Tagged lists hold [Ref] strings because their owners span several kinds.
// Untagged lists hold bare IDs of Owner documents.
type Inverse struct {
	Kind   Kind
	Field  Field
	Owner  Kind
	Tagged bool
}

var (
	// CategoryBlogs mirrors Blog.category on Category.blogs.
	CategoryBlogs = Inverse{Kind: KindCategory, Field: FieldBlogs, Owner: KindBlog}

	// TagBlogs mirrors Blog.tags on Tag.blogs.
	TagBlogs = Inverse{Kind: KindTag, Field: FieldBlogs, Owner: KindBlog}

	// ImageReferences mirrors the imageFile field of blogs, categories and the author.
	ImageReferences = Inverse{Kind: KindImageFile, Field: FieldReferencedDocs, Tagged: true}

	// BlogComments mirrors Comment.blog on Blog.comments.
	BlogComments = Inverse{Kind: KindBlog, Field: FieldComments, Owner: KindComment}

	// CommentReplies mirrors Comment.parentComment on Comment.replies.
	CommentReplies = Inverse{Kind: KindComment, Field: FieldReplies, Owner: KindComment}

	// AuthorComments mirrors Comment.author on Author.comments.
	AuthorComments = Inverse{Kind: KindAuthor, Field: FieldComments, Owner: KindComment}

	// ViewerComments mirrors Comment.viewer on Viewer.comments.
	ViewerComments = Inverse{Kind: KindViewer, Field: FieldComments, Owner: KindComment}
)

// ValueFor is the element stored in the back-reference list for owner.
func (inverse Inverse) ValueFor(owner Ref) string {
	if inverse.Tagged {
		return owner.String()
	}
	return owner.ID
}

// OwnerOf decodes a back-reference list element into the owner reference.
func (inverse Inverse) OwnerOf(value string) (Ref, error) {
	if inverse.Tagged {
		return ParseRef(value)
	}
	return Ref{Kind: inverse.Owner, ID: value}, nil
}

func (inverse Inverse) String() string {
	return string(inverse.Kind) + "." + string(inverse.Field)
}

// # Sets

// Set is an unordered collection of distinct IDs.
//
// It marshals as a sorted JSON array so responses are stable.
type Set map[string]struct{}

// NewSet builds a set from ids, ignoring empty strings and repeats.
func NewSet(ids ...string) Set {
	set := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Optional builds the singleton or empty set for a nullable single-valued reference.
func Optional(id *string) Set {
	if id == nil {
		return Set{}
	}
	return NewSet(*id)
}

// Has reports whether id is a member.
func (set Set) Has(id string) bool {
	_, ok := set[id]
	return ok
}

// Add inserts id.
func (set Set) Add(id string) {
	set[id] = struct{}{}
}

// Remove deletes id.
func (set Set) Remove(id string) {
	delete(set, id)
}

// Len returns the number of members.
func (set Set) Len() int {
	return len(set)
}

// Clone returns an independent copy.
func (set Set) Clone() Set {
	clone := make(Set, len(set))
	for id := range set {
		clone[id] = struct{}{}
	}
	return clone
}

// Difference returns the members of set that are not in other.
func (set Set) Difference(other Set) Set {
	diff := Set{}
	for id := range set {
		if !other.Has(id) {
			diff[id] = struct{}{}
		}
	}
	return diff
}

// Equal reports whether both sets hold exactly the same members.
func (set Set) Equal(other Set) bool {
	if len(set) != len(other) {
		return false
	}
	for id := range set {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Slice returns the members in ascending order.
func (set Set) Slice() []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MarshalJSON encodes the set as a sorted array.
func (set Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Slice())
}

// UnmarshalJSON decodes an array, collapsing repeats.
func (set *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*set = NewSet(ids...)
	return nil
}

// Diff computes what changed between two reference sets.
func Diff(old, updated Set) (added, removed Set) {
	return updated.Difference(old), old.Difference(updated)
}
