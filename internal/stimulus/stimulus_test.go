package stimulus

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psmac-go/internal/hexio"
	"psmac-go/internal/mac"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(7, PatternRandom, mac.ModeInt4)
	require.NoError(t, err)
	b, err := Generate(7, PatternRandom, mac.ModeInt4)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed differs (-a +b):\n%s", diff)
	}
	c, err := Generate(8, PatternRandom, mac.ModeInt4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Feature, c.Feature)
}

func TestGenerateShapes(t *testing.T) {
	for _, p := range []Pattern{PatternRandom, PatternMatch, PatternExtreme} {
		s, err := Generate(1, p, mac.ModeInt8(true, false))
		require.NoError(t, err)
		require.Len(t, s.Kernels, mac.Kernels)
		for _, k := range s.Kernels {
			require.Len(t, k, mac.VectorBits)
			assert.True(t, k.Valid())
		}
		require.Len(t, s.Feature, mac.VectorBits)
	}
}

func TestGenerateMatchDrivesBinaryMax(t *testing.T) {
	s, err := Generate(3, PatternMatch, mac.ModeBinary)
	require.NoError(t, err)
	res, err := mac.NewEngine().Compute(context.Background(), s.Input(mac.ModeBinary, mac.StageFirst))
	require.NoError(t, err)
	for i := 0; i < mac.Kernels; i++ {
		assert.Equal(t, int32(mac.VectorBits), res.Accu[i])
	}
}

func TestGenerateExtremeSaturates(t *testing.T) {
	m := mac.ModeInt8(true, true)
	s, err := Generate(0, PatternExtreme, m)
	require.NoError(t, err)
	res, err := mac.NewEngine().Compute(context.Background(), s.Input(m, mac.StageLast))
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), res.PSOut[0])
	assert.Equal(t, int32(math.MinInt32), res.PSOut[1])
	assert.Equal(t, uint8(127), res.SOut[0])
	assert.Equal(t, uint8(0), res.SOut[1])
}

func TestWriteReadBack(t *testing.T) {
	s, err := Generate(11, PatternRandom, mac.ModeInt2)
	require.NoError(t, err)
	files := FilesIn(t.TempDir())
	require.NoError(t, s.Write(files))

	kernels, err := hexio.ReadVectors(files.Kernel, mac.Kernels, mac.VectorBits)
	require.NoError(t, err)
	feature, err := hexio.ReadVector(files.Feature, mac.VectorBits)
	require.NoError(t, err)
	psin, err := hexio.ReadInt32s(files.PSIn, mac.Kernels, true)
	require.NoError(t, err)
	addin, err := hexio.ReadInt32s(files.AddIn, mac.Kernels, true)
	require.NoError(t, err)

	assert.Equal(t, s.Kernels, kernels)
	assert.Equal(t, s.Feature, feature)
	assert.Equal(t, s.PSIn[:], psin)
	assert.Equal(t, s.AddIn[:], addin)
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("extreme")
	require.NoError(t, err)
	assert.Equal(t, PatternExtreme, p)
	_, err = ParsePattern("ramp")
	assert.Error(t, err)
}
