// Package ownership parses a CODEPROS ownership file into glob rules and
// matches changed file paths against them to find the code pros to notify.
//
// File format, one rule per line:
//
//	<path> <@reviewer> [<@reviewer> ...]
//	# comments start with '#'
//
// A path whose last segment has no "." is a directory and covers every file
// directly inside it (single segment glob, not a recursive one).
package ownership

import (
	"slices"
)

// HandleMarker is the first character of every reviewer handle.
const HandleMarker = '@'

// Rule maps a glob pattern to the reviewers that own matching paths.
type Rule struct {
	Pattern   string
	Reviewers ReviewerSet
}

// ReviewerSet is an unordered set of reviewer handles.
type ReviewerSet map[string]struct{}

// NewReviewerSet creates a set containing the given handles.
func NewReviewerSet(handles ...string) ReviewerSet {
	s := make(ReviewerSet, len(handles))
	for _, h := range handles {
		s[h] = struct{}{}
	}
	return s
}

// Add inserts handles into the set.
func (s ReviewerSet) Add(handles ...string) {
	for _, h := range handles {
		s[h] = struct{}{}
	}
}

// Union adds every member of other to s.
func (s ReviewerSet) Union(other ReviewerSet) {
	for h := range other {
		s[h] = struct{}{}
	}
}

// Subtract removes every member of other from s.
func (s ReviewerSet) Subtract(other ReviewerSet) {
	for h := range other {
		delete(s, h)
	}
}

// Sorted returns the handles in lexical order.
func (s ReviewerSet) Sorted() []string {
	handles := make([]string, 0, len(s))
	for h := range s {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	return handles
}

func validHandle(h string) bool {
	return len(h) >= 2 && h[0] == HandleMarker
}
