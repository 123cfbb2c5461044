// Package lanes splits packed bit vectors into fixed-width integer lanes.
package lanes

import (
	"errors"
	"fmt"
	"strings"

	"psmac-go/internal/fixed"
)

var ErrShape = errors.New("bit vector does not decompose into lanes")

// Bits holds one bit per element, most significant bit first. Elements are
// 0 or 1.
type Bits []uint8

// Valid reports whether every element is 0 or 1.
func (b Bits) Valid() bool {
	for _, v := range b {
		if v > 1 {
			return false
		}
	}
	return true
}

// String renders the vector as a 0/1 string.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		sb.WriteByte('0' + v&1)
	}
	return sb.String()
}

// ValidWidth reports whether width is a supported lane width.
func ValidWidth(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// Extract decodes bits into len(bits)/width lanes. Each lane is built from
// width consecutive bits, MSB first, and read as two's complement when signed.
func Extract(bits Bits, width int, signed bool) ([]int32, error) {
	if !ValidWidth(width) {
		return nil, fmt.Errorf("%w: unsupported lane width %d", ErrShape, width)
	}
	if len(bits)%width != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a multiple of lane width %d", ErrShape, len(bits), width)
	}
	out := make([]int32, len(bits)/width)
	for i := range out {
		out[i] = lane(bits[i*width:(i+1)*width], signed)
	}
	return out, nil
}

func lane(bits Bits, signed bool) int32 {
	var v uint64
	for _, b := range bits {
		v = v<<1 | uint64(b&1)
	}
	if signed {
		return int32(fixed.SignExtend(v, uint(len(bits))))
	}
	return int32(v)
}

// PackWords packs bits into 64-bit words, MSB first. A trailing partial word
// is left-aligned with zero padding.
func PackWords(bits Bits) []uint64 {
	words := make([]uint64, (len(bits)+63)/64)
	for i, b := range bits {
		if b&1 != 0 {
			words[i/64] |= 1 << uint(63-i%64)
		}
	}
	return words
}

// FromBytes expands bytes MSB first into a bit vector of len(p)*8 bits.
func FromBytes(p []byte) Bits {
	out := make(Bits, 0, len(p)*8)
	for _, c := range p {
		for j := 7; j >= 0; j-- {
			out = append(out, (c>>uint(j))&1)
		}
	}
	return out
}

// Bytes packs the vector MSB first. The length must be a multiple of 8.
func (b Bits) Bytes() []byte {
	out := make([]byte, (len(b)+7)/8)
	for i, v := range b {
		if v&1 != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// FromLanes packs lane values back into a bit vector; only the low width bits
// of each value are used.
func FromLanes(vals []int32, width int) Bits {
	out := make(Bits, 0, len(vals)*width)
	for _, v := range vals {
		for j := width - 1; j >= 0; j-- {
			out = append(out, uint8(uint32(v)>>uint(j))&1)
		}
	}
	return out
}
