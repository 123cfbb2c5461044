package mac

// Quantize maps a finalized psout value to the narrow SOUT code of mode m.
// Negative values always floor to zero. The 1-bit threshold is psout >= 1
// while the 2-bit mode only passes 0 and 1 through; the two differ on
// purpose.
func Quantize(m Mode, psout int32) uint8 {
	switch m.Width {
	case 1:
		if psout >= 1 {
			return 1
		}
		return 0
	case 2:
		switch {
		case psout < 0:
			return 0
		case psout > 1:
			return 1
		}
		return uint8(psout)
	case 4:
		return clampCode(psout, 7)
	case 8:
		return clampCode(psout, 127)
	}
	return 0
}

func clampCode(v int32, hi int32) uint8 {
	switch {
	case v >= hi:
		return uint8(hi)
	case v <= 0:
		return 0
	}
	return uint8(v)
}

// SoutMax returns the largest code Quantize can produce for m.
func SoutMax(m Mode) uint8 {
	switch m.Width {
	case 1, 2:
		return 1
	case 4:
		return 7
	case 8:
		return 127
	}
	return 0
}
