package mac

import (
	"math/bits"

	"psmac-go/internal/fixed"
)

// Dot reduces one kernel against the feature in a 24-bit saturating
// accumulator. Both slices hold lanes decoded under m and must have equal
// length.
func Dot(m Mode, kernel, feature []int32) int32 {
	if m.Width == 1 {
		return bipolarDotLanes(kernel, feature)
	}
	return productDot(kernel, feature)
}

// productDot accumulates lane products for the 2/4/8-bit modes.
func productDot(kernel, feature []int32) int32 {
	n := min(len(kernel), len(feature))
	var acc fixed.Acc24
	for i := 0; i < n; i++ {
		acc.Add(fixed.MulWide(kernel[i], feature[i]))
	}
	return acc.Value()
}

// bipolarDotLanes is the XNOR-popcount multiply on 1-bit lanes: equal lanes
// add one, differing lanes subtract one.
func bipolarDotLanes(kernel, feature []int32) int32 {
	n := min(len(kernel), len(feature))
	var acc fixed.Acc24
	for i := 0; i < n; i++ {
		if kernel[i] == feature[i] {
			acc.Add(1)
		} else {
			acc.Add(-1)
		}
	}
	return acc.Value()
}

// bipolarDotWords is bipolarDotLanes on packed words. n is the number of valid
// bits; padding in the last word must be zero in both operands.
//
// The running sum moves by one per lane and n stays far below 2^23, so the
// per-step saturation of the lane loop never engages and the closed form is
// exact.
func bipolarDotWords(kernel, feature []uint64, n int) int32 {
	words := min(len(kernel), len(feature))
	diff := 0
	for i := 0; i < words; i++ {
		diff += bits.OnesCount64(kernel[i] ^ feature[i])
	}
	return int32(fixed.Saturate(int64(n-2*diff), fixed.AccBits))
}

func bipolarDotWordsGeneric(kernel, feature []uint64, n int) int32 {
	var acc fixed.Acc24
	for i := 0; i < n; i++ {
		shift := uint(63 - i%64)
		k := kernel[i/64] >> shift & 1
		f := feature[i/64] >> shift & 1
		if k == f {
			acc.Add(1)
		} else {
			acc.Add(-1)
		}
	}
	return acc.Value()
}
