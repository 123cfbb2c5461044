package mac

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"psmac-go/internal/lanes"
)

// Input is everything one run consumes. Kernels must hold exactly Kernels
// rows; every row and the feature must be VectorBits bits.
type Input struct {
	Mode    Mode
	Stage   Stage
	Kernels []lanes.Bits
	Feature lanes.Bits
	PSIn    [Kernels]int32
	AddIn   [Kernels]int32
}

// Result holds the per-kernel outputs of a run, indexed by kernel.
type Result struct {
	Accu  [Kernels]int32
	PSOut [Kernels]int32
	SOut  [Kernels]uint8
}

// Digest hashes accu, psout and sout (little-endian, in that order).
func (r *Result) Digest() uint64 {
	buf := make([]byte, 0, Kernels*9)
	for _, v := range r.Accu {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	for _, v := range r.PSOut {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	buf = append(buf, r.SOut[:]...)
	return xxhash.Sum64(buf)
}

type Option func(*Engine)

// WithWorkers bounds the number of kernels reduced concurrently. n <= 0 uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// Engine evaluates the MAC datapath. It holds no per-run state and may be
// shared.
type Engine struct {
	workers int
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: defaultWorkers}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Workers returns the concurrency limit.
func (e *Engine) Workers() int {
	return e.workers
}

// Validate checks every precondition of Compute without computing anything.
func (in *Input) Validate() error {
	if err := in.Mode.Validate(); err != nil {
		return err
	}
	if err := in.Stage.Validate(); err != nil {
		return err
	}
	if len(in.Kernels) != Kernels {
		return fmt.Errorf("%w: %d kernel rows, want %d", ErrShape, len(in.Kernels), Kernels)
	}
	for i, row := range in.Kernels {
		if err := checkVector(row); err != nil {
			return fmt.Errorf("kernel %d: %w", i, err)
		}
	}
	if err := checkVector(in.Feature); err != nil {
		return fmt.Errorf("feature: %w", err)
	}
	return nil
}

func checkVector(b lanes.Bits) error {
	if len(b) != VectorBits {
		return fmt.Errorf("%w: %d bits, want %d", ErrShape, len(b), VectorBits)
	}
	if !b.Valid() {
		return fmt.Errorf("%w: element outside {0,1}", ErrShape)
	}
	return nil
}

// Compute runs the extractor, accumulator, chain combiner and quantizer for
// all kernels. On error no result is returned.
func (e *Engine) Compute(ctx context.Context, in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	red, err := newReducer(in.Mode, in.Feature)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if e.workers == 1 {
		for i := 0; i < Kernels; i++ {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if err := e.kernel(&res, red, &in, i); err != nil {
				return Result{}, err
			}
		}
		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < Kernels; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return e.kernel(&res, red, &in, i)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// kernel fills slot i of res. Slots are disjoint, so concurrent calls for
// different i do not race.
func (e *Engine) kernel(res *Result, red *reducer, in *Input, i int) error {
	accu, err := red.reduce(in.Kernels[i])
	if err != nil {
		return fmt.Errorf("kernel %d: %w", i, err)
	}
	res.Accu[i] = accu
	res.PSOut[i] = Chain(in.Stage, accu, in.PSIn[i], in.AddIn[i])
	res.SOut[i] = Quantize(in.Mode, res.PSOut[i])
	return nil
}

// reducer holds the feature decoded once per run; it is read-only while
// kernels are reduced.
type reducer struct {
	mode         Mode
	featureLanes []int32
	featureWords []uint64
}

func newReducer(m Mode, feature lanes.Bits) (*reducer, error) {
	r := &reducer{mode: m}
	if m.Width == 1 {
		r.featureWords = lanes.PackWords(feature)
		return r, nil
	}
	fl, err := m.extractFeature(feature)
	if err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}
	r.featureLanes = fl
	return r, nil
}

func (r *reducer) reduce(kernel lanes.Bits) (int32, error) {
	if r.mode.Width == 1 {
		return BipolarDot(lanes.PackWords(kernel), r.featureWords, len(kernel)), nil
	}
	kl, err := r.mode.extractKernel(kernel)
	if err != nil {
		return 0, err
	}
	return Dot(r.mode, kl, r.featureLanes), nil
}
