package search

import (
	"slices"
)

// StateSet is a set of recovered cipher states.
type StateSet map[uint64]struct{}

func NewStateSet(values ...uint64) StateSet {
	set := make(StateSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s StateSet) Add(v uint64) {
	s[v] = struct{}{}
}

func (s StateSet) Has(v uint64) bool {
	_, ok := s[v]
	return ok
}

func (s StateSet) Len() int {
	return len(s)
}

// Sorted returns the members of the set in ascending order.
func (s StateSet) Sorted() []uint64 {
	values := make([]uint64, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// Intersect returns a new set holding the members present in both sets.
func (s StateSet) Intersect(other StateSet) StateSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	result := make(StateSet)
	for v := range small {
		if large.Has(v) {
			result[v] = struct{}{}
		}
	}
	return result
}
