// Package stimulus generates seeded input sets for the MAC model and the DUT.
package stimulus

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"psmac-go/internal/hexio"
	"psmac-go/internal/lanes"
	"psmac-go/internal/mac"
)

// Pattern selects how kernel and feature bits are drawn.
type Pattern string

const (
	// PatternRandom draws every bit and every psin/addin word uniformly.
	PatternRandom Pattern = "random"
	// PatternMatch copies the feature into every kernel row, which drives the
	// 1-bit mode to its maximum and the other modes to sums of squares.
	PatternMatch Pattern = "match"
	// PatternExtreme fills lanes with the largest magnitudes of the mode and
	// pushes psin/addin to the int32 limits so every saturator engages.
	PatternExtreme Pattern = "extreme"
)

func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case PatternRandom, PatternMatch, PatternExtreme:
		return p, nil
	}
	return "", fmt.Errorf("unknown pattern %q (want random, match or extreme)", s)
}

// Set is one generated stimulus.
type Set struct {
	Kernels []lanes.Bits
	Feature lanes.Bits
	PSIn    [mac.Kernels]int32
	AddIn   [mac.Kernels]int32
}

// Generate builds a deterministic stimulus for seed.
func Generate(seed int64, p Pattern, m mac.Mode) (Set, error) {
	if err := m.Validate(); err != nil {
		return Set{}, err
	}
	rng := rand.New(rand.NewSource(seed))
	var s Set
	switch p {
	case PatternRandom:
		s.Feature = randomBits(rng)
		s.Kernels = make([]lanes.Bits, mac.Kernels)
		for i := range s.Kernels {
			s.Kernels[i] = randomBits(rng)
		}
		for i := 0; i < mac.Kernels; i++ {
			s.PSIn[i] = int32(rng.Uint32())
			s.AddIn[i] = int32(rng.Uint32())
		}
	case PatternMatch:
		s.Feature = randomBits(rng)
		s.Kernels = make([]lanes.Bits, mac.Kernels)
		for i := range s.Kernels {
			s.Kernels[i] = append(lanes.Bits(nil), s.Feature...)
		}
		for i := 0; i < mac.Kernels; i++ {
			s.PSIn[i] = int32(rng.Intn(2001) - 1000)
			s.AddIn[i] = int32(rng.Intn(2001) - 1000)
		}
	case PatternExtreme:
		s.Feature = extremeVector(m.Width, m.FeatureSigned, false)
		s.Kernels = make([]lanes.Bits, mac.Kernels)
		for i := range s.Kernels {
			// Odd rows flip the kernel sign to drive the negative rail too.
			s.Kernels[i] = extremeVector(m.Width, m.KernelSigned, i%2 == 1)
		}
		for i := 0; i < mac.Kernels; i++ {
			if i%2 == 0 {
				s.PSIn[i], s.AddIn[i] = math.MaxInt32, math.MaxInt32
			} else {
				s.PSIn[i], s.AddIn[i] = math.MinInt32, math.MinInt32
			}
		}
	default:
		return Set{}, fmt.Errorf("unknown pattern %q", p)
	}
	return s, nil
}

func randomBits(rng *rand.Rand) lanes.Bits {
	b := make(lanes.Bits, mac.VectorBits)
	for i := range b {
		b[i] = uint8(rng.Intn(2))
	}
	return b
}

// extremeVector fills every lane with the largest magnitude of the lane type,
// the most negative value when negative is set and the lane is signed.
func extremeVector(width int, signed, negative bool) lanes.Bits {
	var v int32
	switch {
	case width == 1:
		if !negative {
			v = 1
		}
	case signed && negative:
		v = -(1 << (width - 1))
	case signed:
		v = 1<<(width-1) - 1
	default:
		v = 1<<width - 1
	}
	vals := make([]int32, mac.VectorBits/width)
	for i := range vals {
		vals[i] = v
	}
	return lanes.FromLanes(vals, width)
}

// Files names the four input files of a stimulus set.
type Files struct {
	Kernel  string
	Feature string
	PSIn    string
	AddIn   string
}

// FilesIn returns the conventional file names inside dir.
func FilesIn(dir string) Files {
	return Files{
		Kernel:  filepath.Join(dir, "kernel.hex"),
		Feature: filepath.Join(dir, "feature.hex"),
		PSIn:    filepath.Join(dir, "psin.hex"),
		AddIn:   filepath.Join(dir, "addin.hex"),
	}
}

// Write stores s in the hex text formats the model reads.
func (s Set) Write(f Files) error {
	for _, path := range []string{f.Kernel, f.Feature, f.PSIn, f.AddIn} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	if err := hexio.WriteFile(f.Kernel, func(w io.Writer) error { return hexio.EncodeVectors(w, s.Kernels) }); err != nil {
		return err
	}
	if err := hexio.WriteFile(f.Feature, func(w io.Writer) error { return hexio.EncodeVector(w, s.Feature) }); err != nil {
		return err
	}
	if err := hexio.WriteFile(f.PSIn, func(w io.Writer) error { return hexio.WriteHex32(w, s.PSIn[:]) }); err != nil {
		return err
	}
	return hexio.WriteFile(f.AddIn, func(w io.Writer) error { return hexio.WriteHex32(w, s.AddIn[:]) })
}

// Input converts the set into an engine input.
func (s Set) Input(m mac.Mode, st mac.Stage) mac.Input {
	return mac.Input{
		Mode:    m,
		Stage:   st,
		Kernels: s.Kernels,
		Feature: s.Feature,
		PSIn:    s.PSIn,
		AddIn:   s.AddIn,
	}
}
