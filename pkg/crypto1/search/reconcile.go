package search

import (
	"fmt"
)

type Kind int

const (
	Empty Kind = iota
	Unique
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	}
	return fmt.Sprintf("%d", k)
}

// Outcome classifies a reconciled candidate set.
// An empty outcome means the observations are inconsistent with each other or with the cipher.
// An ambiguous outcome carries every remaining candidate so the caller may ask for more observations.
type Outcome struct {
	Kind       Kind
	Candidates []uint64
}

func (o Outcome) String() string {
	switch o.Kind {
	case Empty:
		return "no candidates remain"
	case Unique:
		return fmt.Sprintf("unique candidate %#x", o.Candidates[0])
	default:
		return fmt.Sprintf("ambiguous, %d candidates remain", len(o.Candidates))
	}
}

// State returns the recovered state when the outcome is unique.
func (o Outcome) State() (uint64, bool) {
	if o.Kind != Unique {
		return 0, false
	}
	return o.Candidates[0], true
}

// Reconcile intersects candidate sets obtained from independent passes.
// No sets reconcile to an empty set.
func Reconcile(sets ...StateSet) StateSet {
	if len(sets) == 0 {
		return NewStateSet()
	}
	result := NewStateSet(sets[0].Sorted()...)
	for _, set := range sets[1:] {
		result = result.Intersect(set)
	}
	return result
}

func Resolve(set StateSet) Outcome {
	candidates := set.Sorted()
	switch len(candidates) {
	case 0:
		return Outcome{Kind: Empty, Candidates: candidates}
	case 1:
		return Outcome{Kind: Unique, Candidates: candidates}
	default:
		return Outcome{Kind: Ambiguous, Candidates: candidates}
	}
}
