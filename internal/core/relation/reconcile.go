// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/quill/internal/platform/txn"
)

// Report summarizes one reconciliation pass over a single relation.
type Report struct {
	Inverse string `json:"inverse"`
	Owners  int    `json:"owners"`

	// Suspects differed in the bulk read. Some turn out to be writes that
	// landed between the two bulk reads and need no repair.
	Suspects int `json:"suspects"`
	Drifted  int `json:"drifted"`
	Writes   int `json:"writes"`
}

// Reconciler rebuilds back-reference lists from forward references.
//
// Forward references are the source of truth. A bulk read of both sides
// finds the owners whose back-references look wrong. Each of them is then
// observed again inside its own unit of work, with the owner locked, and
// only a difference that is still there is repaired with [Syncer.Sync].
type Reconciler struct {
	index    Index
	syncer   *Syncer
	tx       txn.Runner
	logger   *slog.Logger
	inverses []Inverse
	workers  int
}

// ReconcileOption configures a [Reconciler].
type ReconcileOption func(*Reconciler)

// Covering limits the reconciler to the given relations.
func Covering(inverses ...Inverse) ReconcileOption {
	return func(reconciler *Reconciler) {
		if len(inverses) > 0 {
			reconciler.inverses = inverses
		}
	}
}

// Workers repairs up to n owners at once, each in its own unit of work.
func Workers(n int) ReconcileOption {
	return func(reconciler *Reconciler) {
		if n > 0 {
			reconciler.workers = n
		}
	}
}

// NewReconciler creates a [Reconciler]. By default it covers the category,
// tag and image relations of blogs, one owner at a time.
//
// syncer must write sequentially, since every repair shares one unit of work.
func NewReconciler(index Index, syncer *Syncer, tx txn.Runner, logger *slog.Logger, options ...ReconcileOption) *Reconciler {
	reconciler := &Reconciler{
		index:    index,
		syncer:   syncer,
		tx:       tx,
		logger:   logger,
		inverses: []Inverse{CategoryBlogs, TagBlogs, ImageReferences},
		workers:  1,
	}
	for _, option := range options {
		option(reconciler)
	}
	return reconciler
}

// Run performs one pass over every configured relation.
func (reconciler *Reconciler) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(reconciler.inverses))
	for _, inverse := range reconciler.inverses {
		report, err := reconciler.reconcile(ctx, inverse)
		if err != nil {
			return reports, fmt.Errorf("reconcile %s: %w", inverse, err)
		}
		reports = append(reports, report)

		if report.Drifted > 0 {
			reconciler.logger.WarnContext(ctx, "relation_drift_repaired",
				slog.String("inverse", report.Inverse),
				slog.Int("drifted", report.Drifted),
				slog.Int("writes", report.Writes),
			)
		}
	}
	return reports, nil
}

func (reconciler *Reconciler) reconcile(ctx context.Context, inverse Inverse) (Report, error) {
	report := Report{Inverse: inverse.String()}

	suspects, owners, err := reconciler.suspects(ctx, inverse)
	if err != nil {
		return report, err
	}
	report.Owners = owners
	report.Suspects = len(suspects)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(reconciler.workers)

	for _, owner := range suspects {
		group.Go(func() error {
			repaired, writes, err := reconciler.repair(groupCtx, inverse, owner)

			mu.Lock()
			defer mu.Unlock()
			if repaired {
				report.Drifted++
			}
			report.Writes += writes
			return err
		})
	}

	return report, group.Wait()
}

// suspects compares a bulk read of both sides and returns the owners whose
// back-references differ, plus the number of owners seen.
func (reconciler *Reconciler) suspects(ctx context.Context, inverse Inverse) ([]Ref, int, error) {
	forward, err := reconciler.index.Forward(ctx, inverse)
	if err != nil {
		return nil, 0, err
	}
	backward, err := reconciler.index.Backward(ctx, inverse)
	if err != nil {
		return nil, 0, err
	}

	expected := make(map[string]Set, len(forward))
	owners := make(map[string]Ref, len(forward))
	for owner, targets := range forward {
		value := inverse.ValueFor(owner)
		expected[value] = targets
		owners[value] = owner
	}

	observed := make(map[string]Set)
	for targetID, values := range backward {
		for value := range values {
			if observed[value] == nil {
				observed[value] = Set{}
			}
			observed[value].Add(targetID)
		}
	}

	for value := range observed {
		if _, ok := owners[value]; ok {
			continue
		}
		owner, err := inverse.OwnerOf(value)
		if err != nil {
			reconciler.logger.WarnContext(ctx, "relation_malformed_backref",
				slog.String("inverse", inverse.String()),
				slog.String("value", value),
			)
			continue
		}
		owners[value] = owner
	}

	var suspects []Ref
	for value, owner := range owners {
		want := expected[value]
		if want == nil {
			want = Set{}
		}
		have := observed[value]
		if have == nil {
			have = Set{}
		}
		if !want.Equal(have) {
			suspects = append(suspects, owner)
		}
	}
	return suspects, len(owners), nil
}

// repair observes owner again and fixes whatever difference is still there.
func (reconciler *Reconciler) repair(ctx context.Context, inverse Inverse, owner Ref) (bool, int, error) {
	var repaired bool
	var writes int

	err := reconciler.tx.WithinTx(ctx, func(ctx context.Context) error {
		observation, err := reconciler.index.Observe(ctx, inverse, owner)
		if err != nil {
			return err
		}

		want := observation.Want()
		if want.Equal(observation.ListedBy) {
			reconciler.logger.DebugContext(ctx, "relation_suspect_settled",
				slog.String("inverse", inverse.String()),
				slog.String("owner", owner.String()),
			)
			return nil
		}

		repaired = true
		change, err := reconciler.syncer.Sync(ctx, owner, inverse, observation.ListedBy, want, Lenient)
		writes = change.Writes
		return err
	})
	return repaired, writes, err
}
