package filter_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sergeii/crypto1recover/pkg/crypto1/filter"
)

func TestEval_KnownValues(t *testing.T) {
	tests := []struct {
		x    uint64
		want uint8
	}{
		{0x00000, 0},
		{0x00001, 0},
		{0x00002, 1},
		{0x00003, 1},
		{0x0000F, 1},
		{0x00010, 0},
		{0x000FF, 0},
		{0x12345, 1},
		{0xFFFFF, 1},
		{0xABCDE, 1},
		{0x55555, 1},
		{0xAAAAA, 0},
		{0x80000, 1},
		{0x7FFFF, 1},
		{0xDEADBEEF, 0},
		{0x100000, 0},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, filter.Eval(tt.x), "Eval(%#x)", tt.x)
	}
}

// Every entry of the 32-bit output constant is reachable,
// including the upper half that only a full-width shift can select.
func TestEval_OutputIndices(t *testing.T) {
	tests := []struct {
		index int
		x     uint64
		want  uint8
	}{
		{0, 0x00000, 0},
		{1, 0x30000, 1},
		{2, 0x02000, 0},
		{3, 0x32000, 1},
		{4, 0x00200, 0},
		{5, 0x30200, 0},
		{6, 0x02200, 0},
		{7, 0x32200, 0},
		{8, 0x00030, 0},
		{9, 0x30030, 0},
		{10, 0x02030, 0},
		{11, 0x32030, 1},
		{12, 0x00230, 0},
		{13, 0x30230, 1},
		{14, 0x02230, 1},
		{15, 0x32230, 1},
		{16, 0x00002, 1},
		{17, 0x30002, 1},
		{18, 0x02002, 1},
		{19, 0x32002, 0},
		{20, 0x00202, 1},
		{21, 0x30202, 0},
		{22, 0x02202, 1},
		{23, 0x32202, 0},
		{24, 0x00032, 0},
		{25, 0x30032, 0},
		{26, 0x02032, 1},
		{27, 0x32032, 1},
		{28, 0x00232, 0},
		{29, 0x30232, 1},
		{30, 0x02232, 1},
		{31, 0x32232, 1},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, filter.Eval(tt.x), "index %d via %#x", tt.index, tt.x)
	}
}

func TestEval_FirstOutputs(t *testing.T) {
	var b strings.Builder
	for x := range uint64(64) {
		b.WriteByte('0' + filter.Eval(x))
	}
	assert.Equal(t, "0011010001001111001101000100111100110100010011110000000000000000", b.String())
}

func TestEval_FullDomainDigest(t *testing.T) {
	var digest uint64
	ones := 0
	for x := range uint64(1 << filter.Width) {
		out := filter.Eval(x)
		digest = digest*31 + uint64(out)*(x+1)
		ones += int(out)
	}
	assert.Equal(t, uint64(0x5e1b1369c5e5c000), digest)
	// the function is balanced over its 20-bit domain
	assert.Equal(t, 1<<(filter.Width-1), ones)
}

func TestEval_IgnoresHighBits(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2)) // nolint: gosec
	for range 10000 {
		x := rnd.Uint64()
		assert.Equal(t, filter.Eval(x&(1<<filter.Width-1)), filter.Eval(x))
	}
}

func TestSplit(t *testing.T) {
	for x := uint64(0); x < 1<<12; x += 2 {
		zero, one := filter.Split(x)
		assert.Equal(t, filter.Eval(x), zero)
		assert.Equal(t, filter.Eval(x|1), one)
		// the low bit of the argument is ignored
		z2, o2 := filter.Split(x | 1)
		assert.Equal(t, zero, z2)
		assert.Equal(t, one, o2)
	}
}
