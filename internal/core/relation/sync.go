// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/quill/internal/platform/apperr"
)

// Mode decides what happens when an added target does not exist.
type Mode int

const (
	// Lenient skips missing targets. Used for optional relations during updates.
	Lenient Mode = iota

	// Strict fails before any write when an added target is missing.
	Strict
)

// Change reports what a sync did.
type Change struct {
	Added   []string
	Removed []string

	// Writes counts documents actually written; missing targets are not counted.
	Writes int
}

// Empty reports whether the old and new sets were equal.
func (change Change) Empty() bool {
	return len(change.Added) == 0 && len(change.Removed) == 0
}

// Syncer applies back-reference writes through a [Store].
type Syncer struct {
	store       Store
	logger      *slog.Logger
	concurrency int
}

// Option configures a [Syncer].
type Option func(*Syncer)

// WithConcurrency fans writes out over at most n goroutines.
//
// Leave it at the default of 1 when the store writes through a single
// transaction, which cannot be shared between goroutines.
func WithConcurrency(n int) Option {
	return func(syncer *Syncer) {
		if n > 0 {
			syncer.concurrency = n
		}
	}
}

// NewSyncer creates a [Syncer] over store.
func NewSyncer(store Store, logger *slog.Logger, options ...Option) *Syncer {
	syncer := &Syncer{store: store, logger: logger, concurrency: 1}
	for _, option := range options {
		option(syncer)
	}
	return syncer
}

type operation int

const (
	opPush operation = iota
	opPull
	opUnset
)

func (op operation) String() string {
	switch op {
	case opPush:
		return "push"
	case opPull:
		return "pull"
	default:
		return "unset"
	}
}

// # Sync

/*
Sync moves owner from the targets it no longer references to the ones it now references.

Removals are applied before additions. A removed target that no longer exists is
skipped. An added target that does not exist is skipped in [Lenient] mode and
rejected before any write in [Strict] mode.

Returns:
  - Change: the diff and the number of documents written
  - error: ValidationError for a missing strict target, PartialConsistency
    when a write fails after earlier writes may have landed
*/
func (syncer *Syncer) Sync(ctx context.Context, owner Ref, inverse Inverse, old, updated Set, mode Mode) (Change, error) {
	added, removed := Diff(old, updated)
	change := Change{Added: added.Slice(), Removed: removed.Slice()}
	if change.Empty() {
		return change, nil
	}

	if mode == Strict {
		if err := syncer.Require(ctx, inverse.Kind, change.Added...); err != nil {
			return change, err
		}
	}

	value := inverse.ValueFor(owner)

	pulled, err := syncer.apply(ctx, opPull, inverse.Kind, inverse.Field, value, change.Removed, false)
	change.Writes += pulled
	if err != nil {
		return change, syncer.partial(ctx, owner, inverse, change, err)
	}

	pushed, err := syncer.apply(ctx, opPush, inverse.Kind, inverse.Field, value, change.Added, mode == Strict)
	change.Writes += pushed
	if err != nil {
		if apperr.HasCode(err, apperr.CodeValidation) {
			return change, err
		}
		return change, syncer.partial(ctx, owner, inverse, change, err)
	}

	syncer.logger.DebugContext(ctx, "relation_synced",
		slog.String("owner", owner.String()),
		slog.String("inverse", inverse.String()),
		slog.Int("added", len(change.Added)),
		slog.Int("removed", len(change.Removed)),
		slog.Int("writes", change.Writes),
	)

	return change, nil
}

// # Cascade

// Link is one forward relation captured from an owner before it is deleted.
type Link struct {
	Inverse Inverse
	Targets Set
}

// Snapshot is the state of a deleted owner needed to clean up after it.
type Snapshot struct {
	Owner Ref
	Links []Link
}

// Cascade pulls the deleted owner from every target listed in snapshot.
//
// Targets that no longer exist are skipped. It returns the number of documents written.
func (syncer *Syncer) Cascade(ctx context.Context, snapshot Snapshot) (int, error) {
	writes := 0
	for _, link := range snapshot.Links {
		change, err := syncer.Sync(ctx, snapshot.Owner, link.Inverse, link.Targets, Set{}, Lenient)
		writes += change.Writes
		if err != nil {
			return writes, err
		}
	}
	return writes, nil
}

// ClearReferences unsets field on every document in owners when it still equals target.
//
// It is the cascade for deleting a target whose owners hold a single-valued
// reference to it, such as an image file.
func (syncer *Syncer) ClearReferences(ctx context.Context, owners []Ref, field Field, target string) (int, error) {
	var written atomic.Int64
	err := syncer.fanOut(ctx, len(owners), func(ctx context.Context, i int) error {
		err := syncer.store.Unset(ctx, owners[i], field, target)
		switch {
		case errors.Is(err, ErrTargetMissing):
			return nil
		case err != nil:
			return fmt.Errorf("unset %s on %s: %w", field, owners[i], err)
		}
		written.Add(1)
		return nil
	})

	writes := int(written.Load())
	if err != nil {
		syncer.logger.ErrorContext(ctx, "relation_clear_failed",
			slog.String("target", target),
			slog.String("field", string(field)),
			slog.Int("writes", writes),
			slog.Any("error", err),
		)
		return writes, apperr.PartialConsistency(err)
	}
	return writes, nil
}

// Require fails with ValidationError when any of ids does not exist as a document of kind.
//
// Services call it before writing an owner so a dangling reference is never stored.
func (syncer *Syncer) Require(ctx context.Context, kind Kind, ids ...string) error {
	for _, id := range ids {
		exists, err := syncer.store.Exists(ctx, Ref{Kind: kind, ID: id})
		if err != nil {
			return apperr.Internal(err)
		}
		if !exists {
			return missingTarget(kind, id)
		}
	}
	return nil
}

// # Internals

func (syncer *Syncer) apply(ctx context.Context, op operation, kind Kind, field Field, value string, ids []string, strict bool) (int, error) {
	var written atomic.Int64
	err := syncer.fanOut(ctx, len(ids), func(ctx context.Context, i int) error {
		target := Ref{Kind: kind, ID: ids[i]}

		var err error
		if op == opPush {
			err = syncer.store.Push(ctx, target, field, value)
		} else {
			err = syncer.store.Pull(ctx, target, field, value)
		}

		switch {
		case errors.Is(err, ErrTargetMissing) && op == opPush && strict:
			return missingTarget(kind, target.ID)
		case errors.Is(err, ErrTargetMissing):
			return nil
		case err != nil:
			return fmt.Errorf("%s %s on %s: %w", op, value, target, err)
		}

		written.Add(1)
		return nil
	})
	return int(written.Load()), err
}

// fanOut runs fn for every index, sequentially or through a bounded errgroup.
func (syncer *Syncer) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if syncer.concurrency <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(syncer.concurrency)
	for i := 0; i < n; i++ {
		group.Go(func() error { return fn(groupCtx, i) })
	}
	return group.Wait()
}

func (syncer *Syncer) partial(ctx context.Context, owner Ref, inverse Inverse, change Change, cause error) error {
	syncer.logger.ErrorContext(ctx, "relation_sync_failed",
		slog.String("owner", owner.String()),
		slog.String("inverse", inverse.String()),
		slog.Int("writes", change.Writes),
		slog.Any("error", cause),
	)
	return apperr.PartialConsistency(fmt.Errorf("sync %s for %s: %w", inverse, owner, cause))
}

func missingTarget(kind Kind, id string) error {
	return apperr.ValidationError(fmt.Sprintf("Referenced %s does not exist", kind),
		apperr.FieldError{Field: string(kind), Message: fmt.Sprintf("%s not found", id)})
}
