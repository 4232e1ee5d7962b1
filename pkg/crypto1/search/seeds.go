package search

import (
	"errors"
	"fmt"

	"github.com/sergeii/crypto1recover/pkg/crypto1/filter"
)

var ErrInvalidSeedRange = errors.New("seed range is invalid")

// SeedRange returns every state in [from, to].
func SeedRange(from, to uint64) ([]uint64, error) {
	if to < from {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidSeedRange, from, to)
	}
	seeds := make([]uint64, 0, to-from+1)
	for v := from; ; v++ {
		seeds = append(seeds, v)
		if v == to {
			break
		}
	}
	return seeds, nil
}

// FilterSeeds returns every value of the filter window whose output is bit.
// This is the full initial table for a pass consuming bit as its first keystream bit.
func FilterSeeds(bit uint8) ([]uint64, error) {
	if bit > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidObservation, bit)
	}
	seeds := make([]uint64, 0, 1<<(filter.Width-1))
	for x := range uint64(1 << filter.Width) {
		if filter.Eval(x) == bit {
			seeds = append(seeds, x)
		}
	}
	return seeds, nil
}
