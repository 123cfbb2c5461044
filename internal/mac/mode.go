package mac

import (
	"errors"
	"fmt"

	"psmac-go/internal/lanes"
)

const (
	// Kernels is the number of kernel rows in a bank.
	Kernels = 32
	// VectorBits is the packed width of every kernel row and the feature.
	VectorBits = 1024
)

var (
	ErrMode  = errors.New("invalid mode")
	ErrSign  = errors.New("invalid 8-bit sign code")
	ErrStage = errors.New("exactly one of PS_FIRST, PS_MODE, PS_LAST must be 1")
	ErrShape = errors.New("invalid input shape")
)

// Mode selects the lane width and operand signedness for a run.
type Mode struct {
	Width         int
	KernelSigned  bool
	FeatureSigned bool
}

var (
	ModeBinary = Mode{Width: 1}
	ModeInt2   = Mode{Width: 2, KernelSigned: true, FeatureSigned: true}
	ModeInt4   = Mode{Width: 4, KernelSigned: true, FeatureSigned: true}
)

// ModeInt8 returns the 8-bit mode with independent operand signedness.
func ModeInt8(kernelSigned, featureSigned bool) Mode {
	return Mode{Width: 8, KernelSigned: kernelSigned, FeatureSigned: featureSigned}
}

// ParseMode decodes the two-character mode code ("00", "01", "10", "11").
// sign is the 8-bit signedness code "<kernel><feature>" and is only read for
// mode "11".
func ParseMode(code, sign string) (Mode, error) {
	switch code {
	case "00":
		return ModeBinary, nil
	case "01":
		return ModeInt2, nil
	case "10":
		return ModeInt4, nil
	case "11":
		if len(sign) != 2 || !isBit(sign[0]) || !isBit(sign[1]) {
			return Mode{}, fmt.Errorf("%w: %q, want two characters of '0' or '1'", ErrSign, sign)
		}
		return ModeInt8(sign[0] == '1', sign[1] == '1'), nil
	}
	return Mode{}, fmt.Errorf("%w: %q, expected one of 00, 01, 10, 11", ErrMode, code)
}

func isBit(c byte) bool {
	return c == '0' || c == '1'
}

// Validate checks that the mode is one of the four supported configurations.
func (m Mode) Validate() error {
	switch m.Width {
	case 1:
		if m.KernelSigned || m.FeatureSigned {
			return fmt.Errorf("%w: 1-bit lanes are unsigned", ErrMode)
		}
	case 2, 4:
		if !m.KernelSigned || !m.FeatureSigned {
			return fmt.Errorf("%w: %d-bit lanes are signed", ErrMode, m.Width)
		}
	case 8:
	default:
		return fmt.Errorf("%w: lane width %d", ErrMode, m.Width)
	}
	return nil
}

// Code returns the two-character mode code.
func (m Mode) Code() string {
	switch m.Width {
	case 1:
		return "00"
	case 2:
		return "01"
	case 4:
		return "10"
	case 8:
		return "11"
	}
	return "??"
}

// SignCode returns the "<kernel><feature>" signedness code.
func (m Mode) SignCode() string {
	b := [2]byte{'0', '0'}
	if m.KernelSigned {
		b[0] = '1'
	}
	if m.FeatureSigned {
		b[1] = '1'
	}
	return string(b[:])
}

// Lanes returns the number of lanes per vector.
func (m Mode) Lanes() int {
	return VectorBits / m.Width
}

// SoutBits returns the natural width of a quantized output code.
func (m Mode) SoutBits() int {
	return m.Width
}

func (m Mode) String() string {
	return fmt.Sprintf("w%d/%s", m.Width, m.SignCode())
}

func (m Mode) extractKernel(bits lanes.Bits) ([]int32, error) {
	return lanes.Extract(bits, m.Width, m.KernelSigned)
}

func (m Mode) extractFeature(bits lanes.Bits) ([]int32, error) {
	return lanes.Extract(bits, m.Width, m.FeatureSigned)
}
