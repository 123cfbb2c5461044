package hexio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"psmac-go/internal/lanes"
)

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint8 | ~uint16 | ~uint32
}

// StreamLineBits is the line length of the concatenated SOUT bit stream.
const StreamLineBits = 64

// WriteDecimal writes one decimal value per line.
func WriteDecimal[T integer](w io.Writer, vals []T) error {
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
			return err
		}
	}
	return nil
}

// WriteHex32 writes the 32-bit two's complement of each value as eight
// lowercase hex digits.
func WriteHex32(w io.Writer, vals []int32) error {
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%08x\n", uint32(v)); err != nil {
			return err
		}
	}
	return nil
}

func clampByte(x int64) uint8 {
	switch {
	case x < 0:
		return 0
	case x > 255:
		return 255
	}
	return uint8(x)
}

// WriteHex8 clamps each value to [0,255] and writes it as two hex digits.
func WriteHex8[T integer](w io.Writer, vals []T) error {
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%02x\n", clampByte(int64(v))); err != nil {
			return err
		}
	}
	return nil
}

// WriteBinary8 clamps each value to [0,255] and writes it as eight binary
// digits.
func WriteBinary8[T integer](w io.Writer, vals []T) error {
	for _, v := range vals {
		if _, err := fmt.Fprintf(w, "%08b\n", clampByte(int64(v))); err != nil {
			return err
		}
	}
	return nil
}

// SoutStream concatenates the low codeBits bits of every code, first code
// first, MSB first. A 1-bit stream is left-padded with zeros to one full
// line.
func SoutStream(codes []uint8, codeBits int) (string, error) {
	switch codeBits {
	case 1, 2, 4, 8:
	default:
		return "", fmt.Errorf("unsupported SOUT code width %d", codeBits)
	}
	var sb strings.Builder
	for _, c := range codes {
		for j := codeBits - 1; j >= 0; j-- {
			sb.WriteByte('0' + (c>>uint(j))&1)
		}
	}
	s := sb.String()
	if codeBits == 1 && len(s) < StreamLineBits {
		s = strings.Repeat("0", StreamLineBits-len(s)) + s
	}
	return s, nil
}

// WriteSoutStream writes SoutStream broken into StreamLineBits-character
// lines.
func WriteSoutStream(w io.Writer, codes []uint8, codeBits int) error {
	s, err := SoutStream(codes, codeBits)
	if err != nil {
		return err
	}
	for i := 0; i < len(s); i += StreamLineBits {
		end := min(i+StreamLineBits, len(s))
		if _, err := io.WriteString(w, s[i:end]+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// EncodeVector writes one bit vector as a line of lowercase hex digits. The
// length must be a multiple of 4.
func EncodeVector(w io.Writer, bits lanes.Bits) error {
	if len(bits)%4 != 0 {
		return fmt.Errorf("%w: %d bits is not a whole number of hex digits", ErrFormat, len(bits))
	}
	const digits = "0123456789abcdef"
	buf := make([]byte, 0, len(bits)/4+1)
	for i := 0; i < len(bits); i += 4 {
		v := bits[i]&1<<3 | bits[i+1]&1<<2 | bits[i+2]&1<<1 | bits[i+3]&1
		buf = append(buf, digits[v])
	}
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

// EncodeVectors writes one hex line per vector.
func EncodeVectors(w io.Writer, vecs []lanes.Bits) error {
	for _, v := range vecs {
		if err := EncodeVector(w, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile creates path and streams fn's output through a buffered writer.
func WriteFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
