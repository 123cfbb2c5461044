// Package fixed provides explicit-width two's-complement helpers that mirror
// hardware register behaviour: saturating (clamp) and wrapping assignment,
// sign extension and widening multiplies.
package fixed

// MinInt returns the smallest value representable by a signed register of
// the given width.
func MinInt(bits uint) int64 {
	return -(int64(1) << (bits - 1))
}

// MaxInt returns the largest value representable by a signed register of
// the given width.
func MaxInt(bits uint) int64 {
	return int64(1)<<(bits-1) - 1
}

// Saturate clamps v into a signed register of the given width.
func Saturate(v int64, bits uint) int64 {
	if bits >= 64 {
		return v
	}
	if lo := MinInt(bits); v < lo {
		return lo
	}
	if hi := MaxInt(bits); v > hi {
		return hi
	}
	return v
}

// Wrap truncates v to the low bits and sign-extends the result, which is what
// a register without overflow handling does on assignment.
func Wrap(v int64, bits uint) int64 {
	if bits >= 64 {
		return v
	}
	shift := 64 - bits
	return (v << shift) >> shift
}

// SignExtend interprets the low bits of v as a two's-complement number.
func SignExtend(v uint64, bits uint) int64 {
	return Wrap(int64(v&(uint64(1)<<bits-1)), bits)
}

// AddSat adds a and b at full precision and saturates the sum to bits.
func AddSat(a, b int64, bits uint) int64 {
	return Saturate(a+b, bits)
}

// MulWide multiplies two 32-bit operands after promoting both to 64 bits.
func MulWide(a, b int32) int64 {
	return int64(a) * int64(b)
}

// Sat32 clamps v to the int32 range.
func Sat32(v int64) int32 {
	return int32(Saturate(v, 32))
}
