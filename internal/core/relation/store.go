// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import (
	"context"
	"errors"
)

// ErrTargetMissing is returned by a [Store] when the addressed document does not exist.
var ErrTargetMissing = errors.New("relation: target document not found")

// Store performs single-document reference writes.
//
// Each method touches exactly one document and must be atomic on its own.
type Store interface {
	// Exists reports whether target is present.
	Exists(ctx context.Context, target Ref) (bool, error)

	// Push appends value to the list field of target unless it is already there.
	Push(ctx context.Context, target Ref, field Field, value string) error

	// Pull removes every occurrence of value from the list field of target.
	Pull(ctx context.Context, target Ref, field Field, value string) error

	// Unset clears the single-valued field of target when it currently equals value.
	Unset(ctx context.Context, target Ref, field Field, value string) error
}

// Index reads both sides of a relation in bulk for reconciliation.
type Index interface {
	// Forward maps each owner to the targets its forward reference points at.
	Forward(ctx context.Context, inverse Inverse) (map[Ref]Set, error)

	// Backward maps each target ID to the values listed in its back-reference field.
	Backward(ctx context.Context, inverse Inverse) (map[string]Set, error)

	// Observe re-reads both sides of inverse for one owner. Inside a
	// transaction the owner row stays locked until it ends.
	Observe(ctx context.Context, inverse Inverse, owner Ref) (Observation, error)
}

// Observation is the current state of one owner within a relation.
type Observation struct {
	// Exists is false once the owner has been deleted.
	Exists bool

	// Targets are the documents the owner's forward reference points at.
	Targets Set

	// ListedBy are the targets whose back-reference list names the owner.
	ListedBy Set
}

// Want is the back-reference set the owner should have.
func (observation Observation) Want() Set {
	if !observation.Exists || observation.Targets == nil {
		return Set{}
	}
	return observation.Targets
}
