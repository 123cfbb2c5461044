package fixed

// AccBits is the width of the MAC accumulator register.
const AccBits = 24

// Acc24 is a 24-bit signed saturating accumulator. The zero value is a
// cleared register.
type Acc24 struct {
	v int64
}

// Add folds x into the register. The sum is formed at full precision and then
// clamped, so every step saturates rather than wraps.
func (a *Acc24) Add(x int64) {
	a.v = AddSat(a.v, x, AccBits)
}

// Reset clears the register.
func (a *Acc24) Reset() {
	a.v = 0
}

// Value returns the register contents.
func (a Acc24) Value() int32 {
	return int32(a.v)
}
