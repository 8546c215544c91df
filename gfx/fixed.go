package gfx

import "math/bits"

// Fixed is a signed Q16.16 fixed-point number. Arithmetic wraps like the
// 32-bit accumulators it models.
type Fixed int32

const fixedShift = 16

// One is 1.0 in Q16.16.
const One Fixed = 1 << fixedShift

// FixedFromFloat converts f, truncating toward zero.
func FixedFromFloat(f float64) Fixed { return Fixed(int32(int64(f * (1 << fixedShift)))) }

// FixedFromInt converts an integer.
func FixedFromInt(i int) Fixed { return Fixed(int32(i) << fixedShift) }

// Int returns the integer part, rounding toward negative infinity.
func (f Fixed) Int() int { return int(f >> fixedShift) }

// Float returns f as a float64.
func (f Fixed) Float() float64 { return float64(f) / (1 << fixedShift) }

// Scale multiplies f by an integer, wrapping on overflow.
func (f Fixed) Scale(n int) Fixed { return Fixed(int32(f) * int32(n)) }

// Mul multiplies two fixed-point values.
func (f Fixed) Mul(g Fixed) Fixed { return Fixed((int64(f) * int64(g)) >> fixedShift) }

// Masked returns the integer part of f wrapped to [0, mask]. mask must be
// one less than a power of two.
func (f Fixed) Masked(mask int) int { return f.Int() & mask }

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

func log2(n int) uint { return uint(bits.TrailingZeros(uint(n))) }
