// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import "github.com/taibuivan/quill/internal/platform/apperr"

// Toggle adds userID to likes when absent and removes it when present.
//
// The input is not modified. The boolean reports whether the user now likes it.
func Toggle(likes Set, userID string) (Set, bool) {
	updated := likes.Clone()
	if updated.Has(userID) {
		updated.Remove(userID)
		return updated, false
	}
	updated.Add(userID)
	return updated, true
}

// Replace swaps the whole like set for submitted.
//
// A submitted list that repeats an ID is rejected with DuplicateLike and no
// change. Otherwise the result equals the submitted IDs and the returned
// [Change] lists what was added and removed relative to current.
func Replace(current Set, submitted []string) (Set, Change, error) {
	seen := make(Set, len(submitted))
	for _, id := range submitted {
		if seen.Has(id) {
			return current, Change{}, apperr.DuplicateLike(id)
		}
		seen.Add(id)
	}

	added, removed := Diff(current, seen)
	updated := current.Clone()
	for id := range removed {
		updated.Remove(id)
	}
	for id := range added {
		updated.Add(id)
	}

	return updated, Change{Added: added.Slice(), Removed: removed.Slice()}, nil
}
