// Package extend implements one round of backward state recovery.
//
// A round appends one hypothesised bit to every candidate of a table and keeps
// only the extensions whose filter output matches the target keystream bit.
// Candidates for which both extensions match are branched in place, candidates
// for which neither matches are dropped.
package extend

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sergeii/crypto1recover/pkg/crypto1/filter"
	"github.com/sergeii/crypto1recover/pkg/crypto1/table"
)

var ErrInvalidBit = errors.New("target bit must be either 0 or 1")

// scan walks the active window of a table with a single pointer.
// Slots before current are finished, slots after it are still unshifted.
// The pointer stays put when a candidate is removed and jumps over the
// finished sibling when a candidate is branched.
type scan struct {
	tbl     *table.Table
	bit     uint8
	current int
}

func (s *scan) done() bool {
	return s.current > s.tbl.End()
}

// advance moves the pointer forward and pre-shifts the slot it lands on.
func (s *scan) advance() {
	s.current++
	s.tbl.ShiftLeft(s.current)
}

func (s *scan) step() {
	x := s.tbl.Get(s.current)
	zero, one := filter.Split(x)
	switch {
	case zero != one:
		// exactly one extension produces the target bit
		s.tbl.Set(s.current, x|uint64(zero^s.bit))
		s.advance()
	case zero == s.bit:
		// park the unprocessed neighbour at the tail and put the 1-extension next to x
		s.tbl.Grow(s.tbl.Get(s.current + 1))
		s.tbl.Set(s.current+1, x|1)
		s.current++
		s.advance()
	default:
		s.tbl.CompactRemove(s.current)
		s.tbl.ShiftLeft(s.current)
	}
}

// Round extends every candidate in the active window of tbl by one bit
// so that the filter output of each survivor equals bit.
// An invariant violation aborts the round and is returned as *table.InvariantError.
func Round(tbl *table.Table, bit uint8) (err error) {
	if bit > 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBit, bit)
	}

	defer func() {
		if r := recover(); r != nil {
			violation, ok := r.(*table.InvariantError)
			if !ok {
				panic(r)
			}
			err = violation
		}
	}()

	s := scan{tbl: tbl, bit: bit, current: tbl.Start()}
	tbl.ShiftLeft(s.current)
	for !s.done() {
		s.step()
	}

	return nil
}

// Chunked runs a round over contiguous chunks of values independently
// and concatenates the surviving windows.
// A non-positive size processes all values as a single chunk.
func Chunked(values []uint64, bit uint8, size int) ([]uint64, error) {
	survivors := make([]uint64, 0, len(values))
	for _, chunk := range split(values, size) {
		tbl := table.New(chunk)
		if err := Round(tbl, bit); err != nil {
			return nil, err
		}
		survivors = append(survivors, tbl.Window()...)
	}
	return survivors, nil
}

// Parallel is Chunked with chunks processed concurrently by at most workers goroutines.
// Each chunk is copied into a table of its own, so no two workers share memory.
func Parallel(ctx context.Context, values []uint64, bit uint8, size int, workers int) ([]uint64, error) {
	chunks := split(values, size)
	windows := make([][]uint64, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}
	for i, chunk := range chunks {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			tbl := table.New(chunk)
			if err := Round(tbl, bit); err != nil {
				return err
			}
			windows[i] = tbl.Window()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, w := range windows {
		total += len(w)
	}
	survivors := make([]uint64, 0, total)
	for _, w := range windows {
		survivors = append(survivors, w...)
	}
	return survivors, nil
}

func split(values []uint64, size int) [][]uint64 {
	if size <= 0 || size >= len(values) {
		if len(values) == 0 {
			return nil
		}
		return [][]uint64{values}
	}
	chunks := make([][]uint64, 0, (len(values)+size-1)/size)
	for lo := 0; lo < len(values); lo += size {
		hi := min(lo+size, len(values))
		chunks = append(chunks, values[lo:hi])
	}
	return chunks
}
