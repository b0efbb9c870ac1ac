// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/core/relation"
	"github.com/taibuivan/quill/internal/platform/txn"
)

// fakeIndex reads the fake store's tag lists and a fixed forward map.
type fakeIndex struct {
	store   *fakeStore
	forward map[relation.Ref]relation.Set
}

func (index *fakeIndex) Forward(context.Context, relation.Inverse) (map[relation.Ref]relation.Set, error) {
	return index.forward, nil
}

func (index *fakeIndex) Backward(_ context.Context, inverse relation.Inverse) (map[string]relation.Set, error) {
	backward := map[string]relation.Set{}
	for ref, fields := range index.store.lists {
		if ref.Kind == inverse.Kind {
			backward[ref.ID] = relation.NewSet(fields[inverse.Field]...)
		}
	}
	return backward, nil
}

func (index *fakeIndex) Observe(_ context.Context, inverse relation.Inverse, owner relation.Ref) (relation.Observation, error) {
	index.store.mu.Lock()
	defer index.store.mu.Unlock()

	targets, exists := index.forward[owner]
	observation := relation.Observation{Exists: exists, Targets: targets.Clone(), ListedBy: relation.Set{}}

	value := inverse.ValueFor(owner)
	for ref, fields := range index.store.lists {
		if ref.Kind == inverse.Kind && slices.Contains(fields[inverse.Field], value) {
			observation.ListedBy.Add(ref.ID)
		}
	}
	return observation, nil
}

/*
TestReconciler_RepairsDrift verifies missing, stale and orphaned back-references are fixed.
*/
func TestReconciler_RepairsDrift(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"t1", "t2", "t3"} {
		store.add(tag(id))
	}
	// b1 should be on t1 and t2 but is only on t1 and (stale) t3.
	// b-deleted no longer exists but t2 still lists it.
	store.lists[tag("t1")][relation.FieldBlogs] = []string{"b1"}
	store.lists[tag("t2")][relation.FieldBlogs] = []string{"b-deleted"}
	store.lists[tag("t3")][relation.FieldBlogs] = []string{"b1", "b2"}

	index := &fakeIndex{store: store, forward: map[relation.Ref]relation.Set{
		blog("b1"): relation.NewSet("t1", "t2"),
		blog("b2"): relation.NewSet("t3"),
	}}

	syncer := relation.NewSyncer(store, discard())
	reconciler := relation.NewReconciler(index, syncer, txn.Direct, discard(),
		relation.Covering(relation.TagBlogs), relation.Workers(3))

	reports, err := reconciler.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.Equal(t, 3, reports[0].Owners)
	assert.Equal(t, 2, reports[0].Suspects)
	assert.Equal(t, 2, reports[0].Drifted)
	assert.Equal(t, 3, reports[0].Writes)

	assert.Equal(t, []string{"b1"}, store.list(tag("t1"), relation.FieldBlogs))
	assert.Equal(t, []string{"b1"}, store.list(tag("t2"), relation.FieldBlogs))
	assert.Equal(t, []string{"b2"}, store.list(tag("t3"), relation.FieldBlogs))

	// A second pass finds nothing to do
	reports, err = reconciler.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reports[0].Drifted)
}

/*
TestReconciler_SettledSuspectsAreLeftAlone verifies an owner that changed after the bulk read is not rewritten.
*/
func TestReconciler_SettledSuspectsAreLeftAlone(t *testing.T) {
	store := newFakeStore()
	store.add(tag("t1"))
	store.add(tag("t2"))
	store.lists[tag("t2")][relation.FieldBlogs] = []string{"b1"}

	// The bulk read saw b1 on t1; by the time it is observed again it points at t2
	index := &fakeIndex{store: store, forward: map[relation.Ref]relation.Set{
		blog("b1"): relation.NewSet("t1"),
	}}
	stale := &staleForward{fakeIndex: index, snapshot: index.forward}
	index.forward = map[relation.Ref]relation.Set{blog("b1"): relation.NewSet("t2")}

	reconciler := relation.NewReconciler(stale, relation.NewSyncer(store, discard()), txn.Direct, discard(),
		relation.Covering(relation.TagBlogs))

	reports, err := reconciler.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Suspects)
	assert.Zero(t, reports[0].Drifted)
	assert.Zero(t, store.writes)

	assert.Empty(t, store.list(tag("t1"), relation.FieldBlogs))
	assert.Equal(t, []string{"b1"}, store.list(tag("t2"), relation.FieldBlogs))
}

// staleForward serves an outdated forward snapshot to the bulk read only.
type staleForward struct {
	*fakeIndex
	snapshot map[relation.Ref]relation.Set
}

func (index *staleForward) Forward(context.Context, relation.Inverse) (map[relation.Ref]relation.Set, error) {
	return index.snapshot, nil
}
