package hexio

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psmac-go/internal/lanes"
)

func TestSanitizeLine(t *testing.T) {
	got, err := SanitizeLine(" 0xDE ad\tBE ef\r\n")
	require.NoError(t, err)
	assert.Equal(t, "DEadBEef", got)

	_, err = SanitizeLine("0x")
	assert.ErrorIs(t, err, ErrFormat)
	_, err = SanitizeLine("12g4")
	assert.ErrorIs(t, err, ErrFormat)
	_, err = SanitizeLine("  \t ")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestHexToBits(t *testing.T) {
	bits, err := HexToBits("a5")
	require.NoError(t, err)
	assert.Equal(t, lanes.Bits{1, 0, 1, 0, 0, 1, 0, 1}, bits)
}

func TestDecodeVectors(t *testing.T) {
	in := "\n0f\n\n  F0 \n\n"
	vecs, err := DecodeVectors(strings.NewReader(in), 2, 8)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, "00001111", vecs[0].String())
	assert.Equal(t, "11110000", vecs[1].String())
}

func TestDecodeVectorsErrors(t *testing.T) {
	cases := map[string]string{
		"too few":    "0f\n",
		"extra data": "0f\nf0\n11\n",
		"short line": "0f\nf\n",
		"bad char":   "0f\nzz\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeVectors(strings.NewReader(in), 2, 8)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDecodeVectorsReportsLine(t *testing.T) {
	_, err := DecodeVectors(strings.NewReader("0f\n\nxx\n"), 2, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestDecodeVector(t *testing.T) {
	v, err := DecodeVector(strings.NewReader("\n\n0x80\n \n"), 8)
	require.NoError(t, err)
	assert.Equal(t, "10000000", v.String())

	_, err = DecodeVector(strings.NewReader("80\n01\n"), 8)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = DecodeVector(strings.NewReader("\n \n"), 8)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseHex32(t *testing.T) {
	v, err := ParseHex32("ffffffff", true)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)

	v, err = ParseHex32("80000000", true)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), v)

	v, err = ParseHex32("7fffffff", true)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), v)

	v, err = ParseHex32("ff", false)
	require.NoError(t, err)
	assert.Equal(t, int32(255), v)

	_, err = ParseHex32("ff", true)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ParseHex32("123456789", false)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeInt32s(t *testing.T) {
	vals, err := DecodeInt32s(strings.NewReader("00000001\n\nfffffffe\n"), 2, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2}, vals)

	_, err = DecodeInt32s(strings.NewReader("00000001\n"), 2, true)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = DecodeInt32s(strings.NewReader("1\n2\n"), 2, true)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = DecodeInt32s(strings.NewReader("00000001\n00000002\n00000003\n"), 2, true)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestWriters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDecimal(&buf, []int32{-3, 0, 42}))
	assert.Equal(t, "-3\n0\n42\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHex32(&buf, []int32{-1, 26, math.MinInt32}))
	assert.Equal(t, "ffffffff\n0000001a\n80000000\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHex8(&buf, []int32{-4, 127, 300}))
	assert.Equal(t, "00\n7f\nff\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteBinary8(&buf, []uint8{0, 5, 127}))
	assert.Equal(t, "00000000\n00000101\n01111111\n", buf.String())
}

func TestSoutStream(t *testing.T) {
	codes := make([]uint8, 32)
	codes[0] = 1
	codes[31] = 1

	var buf bytes.Buffer
	require.NoError(t, WriteSoutStream(&buf, codes, 1))
	want := strings.Repeat("0", 32) + "1" + strings.Repeat("0", 30) + "1\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, WriteSoutStream(&buf, codes, 2))
	assert.Equal(t, "01"+strings.Repeat("0", 60)+"01\n", buf.String())

	for i := range codes {
		codes[i] = uint8(i % 8)
	}
	buf.Reset()
	require.NoError(t, WriteSoutStream(&buf, codes, 4))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "000000010010"))

	for i := range codes {
		codes[i] = 127
	}
	buf.Reset()
	require.NoError(t, WriteSoutStream(&buf, codes, 8))
	lines = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, strings.Repeat("01111111", 8), l)
	}

	_, err := SoutStream(codes, 3)
	assert.Error(t, err)
}

func TestEncodeVectorRoundTrip(t *testing.T) {
	src := lanes.FromBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	var buf bytes.Buffer
	require.NoError(t, EncodeVectors(&buf, []lanes.Bits{src, src}))
	assert.Equal(t, "deadbeef\ndeadbeef\n", buf.String())

	back, err := DecodeVectors(&buf, 2, 32)
	require.NoError(t, err)
	assert.Equal(t, src, back[1])
}

func TestWriteFileAndDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out_hex.txt")
	vals := []int32{-1, 0, 7, math.MaxInt32}
	require.NoError(t, WriteFile(path, func(w io.Writer) error { return WriteHex32(w, vals) }))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ffffffff\n00000000\n00000007\n7fffffff\n", string(raw))

	got, err := ReadDump(path, FormatHex32)
	require.NoError(t, err)
	assert.Equal(t, []int64{-1, 0, 7, math.MaxInt32}, got)
}

func TestDecodeDumpFormats(t *testing.T) {
	got, err := DecodeDump(strings.NewReader("-5\n\n12\n"), FormatDecimal)
	require.NoError(t, err)
	assert.Equal(t, []int64{-5, 12}, got)

	got, err = DecodeDump(strings.NewReader("7f\n00\n"), FormatHex8)
	require.NoError(t, err)
	assert.Equal(t, []int64{127, 0}, got)

	got, err = DecodeDump(strings.NewReader("00000101\n"), FormatBinary8)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, got)

	_, err = DecodeDump(strings.NewReader("12x\n"), FormatDecimal)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestCompareDumps(t *testing.T) {
	m, err := CompareDumps([]int64{1, 2, 3}, []int64{1, 5, 3})
	require.NoError(t, err)
	assert.Equal(t, []Mismatch{{Index: 1, Expected: 2, Actual: 5}}, m)

	m, err = CompareDumps([]int64{1, 2}, []int64{1})
	assert.Error(t, err)
	assert.Empty(t, m)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("hex8")
	require.NoError(t, err)
	assert.Equal(t, FormatHex8, f)
	_, err = ParseFormat("oct")
	assert.Error(t, err)
}
