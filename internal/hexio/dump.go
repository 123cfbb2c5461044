package hexio

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format names a per-line output dump encoding.
type Format string

const (
	FormatDecimal Format = "dec"
	FormatHex32   Format = "hex32"
	FormatHex8    Format = "hex8"
	FormatBinary8 Format = "bin8"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatDecimal, FormatHex32, FormatHex8, FormatBinary8:
		return f, nil
	}
	return "", fmt.Errorf("unknown dump format %q (want dec, hex32, hex8 or bin8)", s)
}

// DecodeDump reads every non-blank line of a dump written by one of the
// Write* encoders back into integers.
func DecodeDump(r io.Reader, f Format) ([]int64, error) {
	lr := newLineReader(r)
	var out []int64
	for {
		text, ok, err := lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		v, err := parseDumpValue(strings.TrimSpace(text), f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
		out = append(out, v)
	}
}

func parseDumpValue(s string, f Format) (int64, error) {
	switch f {
	case FormatDecimal:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return v, nil
	case FormatHex32:
		clean, err := SanitizeLine(s)
		if err != nil {
			return 0, err
		}
		v, err := ParseHex32(clean, false)
		return int64(v), err
	case FormatHex8:
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return int64(v), nil
	case FormatBinary8:
		v, err := strconv.ParseUint(s, 2, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return int64(v), nil
	}
	return 0, fmt.Errorf("unknown dump format %q", f)
}

// ReadDump opens path and decodes it with DecodeDump.
func ReadDump(path string, f Format) ([]int64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	v, err := DecodeDump(fh, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Mismatch is one differing line between two dumps.
type Mismatch struct {
	Index    int
	Expected int64
	Actual   int64
}

// CompareDumps returns every index where the dumps differ. A length
// difference is reported as an error alongside the mismatches of the common
// prefix.
func CompareDumps(expected, actual []int64) ([]Mismatch, error) {
	n := min(len(expected), len(actual))
	var out []Mismatch
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			out = append(out, Mismatch{Index: i, Expected: expected[i], Actual: actual[i]})
		}
	}
	if len(expected) != len(actual) {
		return out, fmt.Errorf("length mismatch: expected %d values, actual %d", len(expected), len(actual))
	}
	return out, nil
}
