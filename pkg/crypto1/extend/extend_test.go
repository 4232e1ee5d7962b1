package extend_test

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergeii/crypto1recover/pkg/crypto1/extend"
	"github.com/sergeii/crypto1recover/pkg/crypto1/filter"
	"github.com/sergeii/crypto1recover/pkg/crypto1/table"
)

func distinct(values []uint64) []uint64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

func expectedExtensions(values []uint64, bit uint8) []uint64 {
	expected := make([]uint64, 0, 2*len(values))
	for _, c := range values {
		for _, ext := range []uint64{c << 1, c<<1 | 1} {
			if filter.Eval(ext) == bit {
				expected = append(expected, ext)
			}
		}
	}
	return distinct(expected)
}

func randomCandidates(seed uint64, n int, bits uint) []uint64 {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) // nolint: gosec
	seen := make(map[uint64]struct{}, n)
	values := make([]uint64, 0, n)
	for len(values) < n {
		v := rnd.Uint64N(1 << bits)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func TestRound_ReferenceScenario(t *testing.T) {
	buf := make([]uint64, 64)
	for i := range 20 {
		buf[i] = uint64(i + 1)
	}
	tbl, err := table.NewWindow(buf, 0, 19)
	require.NoError(t, err)

	err = extend.Round(tbl, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, tbl.Start())
	assert.Equal(t, 19, tbl.End())
	assert.Equal(
		t,
		[]uint64{2, 3, 5, 9, 12, 13, 14, 15, 18, 19, 21, 25, 28, 29, 30, 31, 34, 35, 37, 41},
		distinct(tbl.Window()),
	)

	// the scan pointer leaves a pre-shifted stale value right after the window;
	// reading one slot past the window gives the reference harness output
	lookahead := tbl.Get(tbl.End() + 1)
	assert.Equal(t, uint64(4), lookahead)
	assert.Equal(t, uint8(0), filter.Eval(lookahead))
	assert.Equal(
		t,
		[]uint64{2, 3, 4, 5, 9, 12, 13, 14, 15, 18, 19, 21, 25, 28, 29, 30, 31, 34, 35, 37, 41},
		distinct(append(tbl.Window(), lookahead)),
	)
}

func TestRound_MatchesExtensionSet(t *testing.T) {
	tests := []struct {
		name  string
		seed  uint64
		count int
		bits  uint
		bit   uint8
	}{
		{"small population, bit 0", 1, 10, 20, 0},
		{"small population, bit 1", 2, 10, 20, 1},
		{"wide states, bit 0", 3, 5000, 40, 0},
		{"wide states, bit 1", 4, 5000, 40, 1},
		{"dense narrow states", 5, 4000, 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeds := randomCandidates(tt.seed, tt.count, tt.bits)
			tbl := table.New(seeds)

			require.NoError(t, extend.Round(tbl, tt.bit))
			window := tbl.Window()

			// every survivor produces the target bit
			for _, c := range window {
				assert.Equal(t, tt.bit, filter.Eval(c))
			}
			// survivors are exactly the consistent extensions: no false negatives, both branches kept
			assert.Equal(t, expectedExtensions(seeds, tt.bit), distinct(window))
			// no extension is produced twice from distinct parents
			assert.Len(t, window, len(distinct(window)))
		})
	}
}

func TestRound_BranchCompleteness(t *testing.T) {
	for c := range uint64(1 << 10) {
		zero, one := filter.Eval(c<<1), filter.Eval(c<<1|1)
		if zero != one {
			continue
		}
		tbl := table.New([]uint64{c})
		require.NoError(t, extend.Round(tbl, zero))
		assert.ElementsMatch(t, []uint64{c << 1, c<<1 | 1}, tbl.Window())
	}
}

func TestRound_SingleCandidateExhaustive(t *testing.T) {
	for c := range uint64(1 << 12) {
		for _, bit := range []uint8{0, 1} {
			tbl := table.New([]uint64{c})
			require.NoError(t, extend.Round(tbl, bit))
			assert.Equal(t, expectedExtensions([]uint64{c}, bit), distinct(tbl.Window()))
		}
	}
}

func TestRound_OffsetWindowLeavesHeadUntouched(t *testing.T) {
	seeds := randomCandidates(11, 300, 24)
	buf := make([]uint64, 5+len(seeds)+1)
	for i := range 5 {
		buf[i] = 0xdead
	}
	copy(buf[5:], seeds)

	tbl, err := table.NewWindow(buf, 5, 5+len(seeds)-1)
	require.NoError(t, err)
	require.NoError(t, extend.Round(tbl, 0))

	assert.Equal(t, 5, tbl.Start())
	assert.Equal(t, expectedExtensions(seeds, 0), distinct(tbl.Window()))
	for i := range 5 {
		assert.Equal(t, uint64(0xdead), buf[i])
	}
}

func TestRound_ConsecutiveRounds(t *testing.T) {
	seeds := randomCandidates(21, 1000, 20)
	bits := []uint8{1, 0, 0, 1, 1}
	tbl := table.New(seeds)
	for _, bit := range bits {
		require.NoError(t, extend.Round(tbl, bit))
	}
	for _, c := range tbl.Window() {
		for i, bit := range bits {
			shift := len(bits) - 1 - i
			assert.Equal(t, bit, filter.Eval(c>>shift))
		}
	}
}

func TestRound_EmptyTable(t *testing.T) {
	tbl := table.New(nil)
	require.NoError(t, extend.Round(tbl, 1))
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Window())
}

func TestRound_InvalidBit(t *testing.T) {
	tbl := table.New([]uint64{1, 2, 3})
	err := extend.Round(tbl, 2)
	assert.ErrorIs(t, err, extend.ErrInvalidBit)
	assert.Equal(t, []uint64{1, 2, 3}, tbl.Window())
}

func TestChunked_Equivalence(t *testing.T) {
	seeds := randomCandidates(31, 3000, 32)
	for _, bit := range []uint8{0, 1} {
		full := table.New(seeds)
		require.NoError(t, extend.Round(full, bit))
		want := distinct(full.Window())

		for _, size := range []int{0, 1, 2, 7, 64, 1000, 2999, 3000, 5000} {
			got, err := extend.Chunked(seeds, bit, size)
			require.NoError(t, err)
			assert.Equalf(t, want, distinct(got), "chunk size %d", size)
		}
	}
}

func TestChunked_RandomPartitions(t *testing.T) {
	rnd := rand.New(rand.NewPCG(41, 42)) // nolint: gosec
	seeds := randomCandidates(43, 2000, 28)
	full := table.New(seeds)
	require.NoError(t, extend.Round(full, 1))
	want := distinct(full.Window())

	for range 20 {
		var union []uint64
		for lo := 0; lo < len(seeds); {
			hi := min(lo+1+rnd.IntN(300), len(seeds))
			part := table.New(seeds[lo:hi])
			require.NoError(t, extend.Round(part, 1))
			union = append(union, part.Window()...)
			lo = hi
		}
		assert.Equal(t, want, distinct(union))
	}
}

func TestChunked_DoesNotMutateInput(t *testing.T) {
	seeds := randomCandidates(51, 100, 20)
	before := slices.Clone(seeds)
	_, err := extend.Chunked(seeds, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, before, seeds)
}

func TestParallel_Equivalence(t *testing.T) {
	seeds := randomCandidates(61, 10000, 36)
	want, err := extend.Chunked(seeds, 0, 0)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4, 16} {
		got, err := extend.Parallel(context.TODO(), seeds, 0, 333, workers)
		require.NoError(t, err)
		assert.Equal(t, distinct(want), distinct(got))
	}
}

func TestParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	_, err := extend.Parallel(ctx, randomCandidates(71, 100, 20), 1, 10, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallel_InvalidBit(t *testing.T) {
	_, err := extend.Parallel(context.TODO(), []uint64{1, 2, 3}, 3, 1, 2)
	assert.ErrorIs(t, err, extend.ErrInvalidBit)
}
