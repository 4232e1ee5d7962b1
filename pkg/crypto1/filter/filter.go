// Package filter implements the nonlinear output function of the Crypto1 stream cipher.
//
// The function reads a 20-bit window of the cipher state split into five nibbles.
// Each nibble selects one bit of an intermediate 5-bit index, and the index selects
// the output bit from a 32-bit constant. The constants are part of the cipher
// definition and must be reproduced bit for bit.
package filter

const (
	fa uint64 = 0xF22C0
	fb uint64 = 0x6C9C0
	fc uint64 = 0x3C8B0
	fd uint64 = 0x1E458
	fe uint64 = 0x0D938
	fo uint64 = 0xEC57E80A
)

// Width is the number of low state bits read by Eval.
const Width = 20

// Eval returns the keystream bit produced by the state x.
// Only the low Width bits of x are consulted.
func Eval(x uint64) uint8 {
	var f uint64
	f |= (fa >> (x & 0xF)) & 16
	f |= (fb >> ((x >> 4) & 0xF)) & 8
	f |= (fc >> ((x >> 8) & 0xF)) & 4
	f |= (fd >> ((x >> 12) & 0xF)) & 2
	f |= (fe >> ((x >> 16) & 0xF)) & 1
	return uint8((fo >> f) & 1)
}

// Split evaluates both extensions of a value whose low bit has just been made room for:
// zero is the output for x with a trailing 0 bit, one is the output for x with a trailing 1 bit.
func Split(x uint64) (zero, one uint8) {
	x &^= 1
	return Eval(x), Eval(x | 1)
}
