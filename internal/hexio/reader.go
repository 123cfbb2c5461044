// Package hexio decodes the hexadecimal text files a testbench hands to the
// model and encodes the model's outputs in the formats the testbench reads
// back.
package hexio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"psmac-go/internal/lanes"
)

var ErrFormat = errors.New("invalid hex input")

const maxLine = 1 << 20

// SanitizeLine drops spaces, tabs and an optional 0x prefix and checks that
// what remains is a non-empty run of hex digits.
func SanitizeLine(line string) (string, error) {
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, line)
	if len(clean) >= 2 && clean[0] == '0' && (clean[1] == 'x' || clean[1] == 'X') {
		clean = clean[2:]
	}
	if clean == "" {
		return "", fmt.Errorf("%w: empty hex content", ErrFormat)
	}
	for i := 0; i < len(clean); i++ {
		if hexVal(clean[i]) < 0 {
			return "", fmt.Errorf("%w: invalid hex char %q", ErrFormat, clean[i])
		}
	}
	return clean, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// HexToBits expands sanitized hex digits into a bit vector, four bits per
// digit, MSB first.
func HexToBits(hex string) (lanes.Bits, error) {
	out := make(lanes.Bits, 0, len(hex)*4)
	for i := 0; i < len(hex); i++ {
		v := hexVal(hex[i])
		if v < 0 {
			return nil, fmt.Errorf("%w: invalid hex char %q", ErrFormat, hex[i])
		}
		for j := 3; j >= 0; j-- {
			out = append(out, uint8(v>>uint(j))&1)
		}
	}
	return out, nil
}

// lineReader yields non-blank lines together with their 1-based physical
// line numbers.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, bool, error) {
	for lr.sc.Scan() {
		lr.line++
		text := lr.sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		return text, true, nil
	}
	return "", false, lr.sc.Err()
}

// expectEnd fails if any non-blank content is left.
func (lr *lineReader) expectEnd(what string) error {
	_, ok, err := lr.next()
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: line %d: extra data after %s", ErrFormat, lr.line, what)
	}
	return nil
}

// DecodeVectors reads exactly count non-blank lines of bits/4 hex digits.
func DecodeVectors(r io.Reader, count, bits int) ([]lanes.Bits, error) {
	lr := newLineReader(r)
	out := make([]lanes.Bits, 0, count)
	for len(out) < count {
		text, ok, err := lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: expected %d non-empty lines, got %d", ErrFormat, count, len(out))
		}
		v, err := decodeVectorLine(text, bits)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
		out = append(out, v)
	}
	if err := lr.expectEnd(fmt.Sprintf("expected %d lines", count)); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeVector reads a file holding exactly one vector line.
func DecodeVector(r io.Reader, bits int) (lanes.Bits, error) {
	lr := newLineReader(r)
	text, ok, err := lr.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: expected 1 non-empty line, got 0", ErrFormat)
	}
	v, err := decodeVectorLine(text, bits)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lr.line, err)
	}
	if err := lr.expectEnd("first vector line"); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeVectorLine(text string, bits int) (lanes.Bits, error) {
	clean, err := SanitizeLine(text)
	if err != nil {
		return nil, err
	}
	if len(clean)*4 != bits {
		return nil, fmt.Errorf("%w: expected %d bits (%d hex), got %d bits (%d hex)",
			ErrFormat, bits, bits/4, len(clean)*4, len(clean))
	}
	return HexToBits(clean)
}

// ParseHex32 reads up to eight hex digits as a 32-bit two's-complement value.
// strict demands exactly eight digits.
func ParseHex32(clean string, strict bool) (int32, error) {
	n := len(clean)
	if n == 0 || n > 8 {
		return 0, fmt.Errorf("%w: 32-bit hex length %d, expected 1..8 digits", ErrFormat, n)
	}
	if strict && n != 8 {
		return 0, fmt.Errorf("%w: expected exactly 8 hex digits, got %d", ErrFormat, n)
	}
	var v uint32
	for i := 0; i < n; i++ {
		d := hexVal(clean[i])
		if d < 0 {
			return 0, fmt.Errorf("%w: invalid hex char %q in 32-bit value", ErrFormat, clean[i])
		}
		v = v<<4 | uint32(d)
	}
	return int32(v), nil
}

// DecodeInt32s reads exactly count non-blank lines of 32-bit hex values.
func DecodeInt32s(r io.Reader, count int, strict bool) ([]int32, error) {
	lr := newLineReader(r)
	out := make([]int32, 0, count)
	for len(out) < count {
		text, ok, err := lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: expected %d non-empty hex lines, got %d", ErrFormat, count, len(out))
		}
		clean, err := SanitizeLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
		v, err := ParseHex32(clean, strict)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
		out = append(out, v)
	}
	if err := lr.expectEnd(fmt.Sprintf("expected %d lines", count)); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadVectors opens path and decodes it with DecodeVectors.
func ReadVectors(path string, count, bits int) ([]lanes.Bits, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := DecodeVectors(f, count, bits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadVector opens path and decodes it with DecodeVector.
func ReadVector(path string, bits int) (lanes.Bits, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := DecodeVector(f, bits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadInt32s opens path and decodes it with DecodeInt32s.
func ReadInt32s(path string, count int, strict bool) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := DecodeInt32s(f, count, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
