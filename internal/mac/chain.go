package mac

import "psmac-go/internal/fixed"

// sumBits is the width of the partial-sum adder. A 24-bit accumulation plus
// two int32 addends always fits, so the wrap on assignment never engages.
const sumBits = 40

// Chain folds the raw accumulation into the partial-sum chain for one kernel
// and saturates the result to int32.
//
//	FIRST: accu
//	MODE:  accu + psin
//	LAST:  accu + psin + addin
func Chain(stage Stage, accu, psin, addin int32) int32 {
	s := int64(accu)
	if stage == StageMode || stage == StageLast {
		s = fixed.Wrap(s+int64(psin), sumBits)
	}
	if stage == StageLast {
		s = fixed.Wrap(s+int64(addin), sumBits)
	}
	return fixed.Sat32(s)
}
