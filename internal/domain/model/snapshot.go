package model

import "sort"

// Snapshot is a point-in-time summary of PR state, used by the wait loop to
// decide whether anything needs attention. All sets are computed after
// human-review-flagged threads are dropped and check-name filters applied.
// Invariant: ActionableThreadIDs is a subset of UnresolvedThreadIDs.
// A snapshot is never mutated; every poll tick recomputes one from scratch.
type Snapshot struct {
	ActionableThreadIDs map[string]struct{}
	UnresolvedThreadIDs map[string]struct{}
	FailedCheckNames    map[string]struct{}
	PendingCheckNames   map[string]struct{}
}

// IsActionable reports whether the PR needs work right now: a thread awaits
// a reply or a check has failed.
func (s Snapshot) IsActionable() bool {
	return len(s.ActionableThreadIDs) > 0 || len(s.FailedCheckNames) > 0
}

// IsCIHappy reports whether CI is fully settled: nothing failed, nothing pending.
func (s Snapshot) IsCIHappy() bool {
	return len(s.FailedCheckNames) == 0 && len(s.PendingCheckNames) == 0
}

// IsHappy reports whether the PR needs no action at all: CI settled and no
// thread awaiting a reply.
func (s Snapshot) IsHappy() bool {
	return s.IsCIHappy() && len(s.ActionableThreadIDs) == 0
}

// SortedNames returns a set's members sorted, for stable display.
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
