// Package table holds the candidate population of a state recovery pass.
//
// A Table owns a single backing buffer split into an active window [start, end]
// and a tail. Candidates spawned during a round are grown into the tail and become
// part of the window; discarded candidates are swap-deleted with the last window slot.
// One slot past end is always allocated so that the scan pointer can pre-shift the
// slot it advances into, including the first slot past the window.
package table

import (
	"errors"
	"fmt"
)

var ErrInvariantViolation = errors.New("candidate table invariant violated")

// InvariantError describes the table state at the moment an invariant was broken.
type InvariantError struct {
	Op    string
	Index int
	Start int
	End   int
	Cap   int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"%s: %s at index %d (start=%d end=%d cap=%d)",
		ErrInvariantViolation, e.Op, e.Index, e.Start, e.End, e.Cap,
	)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

const minSpare = 16

type Table struct {
	buf   []uint64
	start int
	end   int
}

// New creates a table whose window holds a copy of seeds.
func New(seeds []uint64) *Table {
	buf := make([]uint64, len(seeds)+max(len(seeds)/2, minSpare))
	copy(buf, seeds)
	return &Table{
		buf:   buf,
		start: 0,
		end:   len(seeds) - 1,
	}
}

// NewWindow wraps a pre-filled buffer, using [start, end] as the active window.
// The buffer is owned by the table afterwards.
func NewWindow(buf []uint64, start, end int) (*Table, error) {
	t := &Table{buf: buf, start: start, end: end}
	if start < 0 || start > end+1 || end+1 >= len(buf) {
		return nil, t.violation("wrap", end)
	}
	return t, nil
}

func (t *Table) Start() int {
	return t.start
}

func (t *Table) End() int {
	return t.end
}

func (t *Table) Len() int {
	return t.end - t.start + 1
}

func (t *Table) Cap() int {
	return len(t.buf)
}

// Window returns a copy of the candidates in the active window.
func (t *Table) Window() []uint64 {
	window := make([]uint64, t.Len())
	copy(window, t.buf[t.start:t.end+1])
	return window
}

// Get returns the value at i. The slot right after the window may be read as well.
func (t *Table) Get(i int) uint64 {
	t.check("get", i, t.end+1)
	return t.buf[i]
}

func (t *Table) Set(i int, v uint64) {
	t.check("set", i, t.end+1)
	t.buf[i] = v
}

// ShiftLeft appends a zero bit to the value at i.
func (t *Table) ShiftLeft(i int) {
	t.check("shift", i, t.end+1)
	t.buf[i] <<= 1
}

// Grow appends v right after the window, extending it by one slot.
func (t *Table) Grow(v uint64) {
	t.end++
	t.reserve(t.end + 1)
	t.buf[t.end] = v
}

// CompactRemove discards the candidate at i by moving the last window candidate into its slot.
// The order of the remaining candidates is not preserved.
func (t *Table) CompactRemove(i int) {
	t.check("remove", i, t.end)
	t.buf[i] = t.buf[t.end]
	t.end--
}

// reserve makes sure the slot at i is allocated.
func (t *Table) reserve(i int) {
	if i < len(t.buf) {
		return
	}
	grown := make([]uint64, max(2*len(t.buf), i+minSpare))
	copy(grown, t.buf)
	t.buf = grown
}

func (t *Table) check(op string, i, limit int) {
	if t.start > t.end+1 || i < t.start || i > limit || i >= len(t.buf) {
		panic(t.violation(op, i))
	}
}

func (t *Table) violation(op string, i int) *InvariantError {
	return &InvariantError{
		Op:    op,
		Index: i,
		Start: t.start,
		End:   t.end,
		Cap:   len(t.buf),
	}
}
