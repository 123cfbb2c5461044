package psmac

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"psmac-go/internal/hexio"
	"psmac-go/internal/mac"
)

// Request describes one golden-model run over files on disk.
type Request struct {
	KernelPath  string
	FeaturePath string
	PSInPath    string
	AddInPath   string
	OutputPath  string

	Mode string
	Sign string

	First    bool
	ModeFlag bool
	Last     bool

	Workers int
	// Logger receives progress at V(1) and V(2). The zero value discards.
	Logger logr.Logger
}

// Output is one file written by Run.
type Output struct {
	Label string
	Path  string
}

// Report is the outcome of a run.
type Report struct {
	Mode    mac.Mode
	Stage   mac.Stage
	Result  mac.Result
	Outputs []Output
}

// Run loads the inputs, evaluates the model and writes the output file set.
// Nothing is written unless the whole computation succeeds.
func Run(ctx context.Context, req Request) (Report, error) {
	log := req.Logger

	stage, err := mac.StageFromFlags(req.First, req.ModeFlag, req.Last)
	if err != nil {
		return Report{}, err
	}
	mode, err := mac.ParseMode(req.Mode, req.Sign)
	if err != nil {
		return Report{}, err
	}
	if req.OutputPath == "" {
		return Report{}, fmt.Errorf("missing output path")
	}

	in, err := Load(req, mode, stage)
	if err != nil {
		return Report{}, err
	}
	log.V(1).Info("inputs loaded", "kernel", req.KernelPath, "feature", req.FeaturePath, "mode", mode.String(), "stage", stage.String())

	engine := mac.NewEngine(mac.WithWorkers(req.Workers))
	res, err := engine.Compute(ctx, in)
	if err != nil {
		return Report{}, fmt.Errorf("compute: %w", err)
	}
	log.V(1).Info("computed", "workers", engine.Workers(), "popcount", mac.PopcountEnabled(), "digest", fmt.Sprintf("%016x", res.Digest()))

	outputs, err := WriteOutputs(req.OutputPath, mode, stage, &res)
	if err != nil {
		return Report{}, err
	}
	for _, o := range outputs {
		log.V(2).Info("wrote output", "label", o.Label, "path", o.Path)
	}
	return Report{Mode: mode, Stage: stage, Result: res, Outputs: outputs}, nil
}

// Load reads the four input files of req into an engine input.
func Load(req Request, mode mac.Mode, stage mac.Stage) (mac.Input, error) {
	kernels, err := hexio.ReadVectors(req.KernelPath, mac.Kernels, mac.VectorBits)
	if err != nil {
		return mac.Input{}, fmt.Errorf("load kernels: %w", err)
	}
	feature, err := hexio.ReadVector(req.FeaturePath, mac.VectorBits)
	if err != nil {
		return mac.Input{}, fmt.Errorf("load feature: %w", err)
	}
	psin, err := hexio.ReadInt32s(req.PSInPath, mac.Kernels, true)
	if err != nil {
		return mac.Input{}, fmt.Errorf("load psin: %w", err)
	}
	addin, err := hexio.ReadInt32s(req.AddInPath, mac.Kernels, true)
	if err != nil {
		return mac.Input{}, fmt.Errorf("load addin: %w", err)
	}
	in := mac.Input{
		Mode:    mode,
		Stage:   stage,
		Kernels: kernels,
		Feature: feature,
	}
	copy(in.PSIn[:], psin)
	copy(in.AddIn[:], addin)
	return in, nil
}

// BaseName strips the extension of the last path element.
func BaseName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext)
}

// WriteOutputs writes the file set for a run next to outputPath and returns
// the files in write order. The LAST stage writes psout and the SOUT
// encodings to derived names; the other stages write psout to outputPath
// itself. accu.txt and the accu/psout hex dumps are always written.
func WriteOutputs(outputPath string, mode mac.Mode, stage mac.Stage, res *mac.Result) ([]Output, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	base := BaseName(outputPath)

	type job struct {
		label string
		path  string
		write func(w io.Writer) error
	}
	var jobs []job
	if stage == mac.StageLast {
		jobs = append(jobs,
			job{"PSOUT", base + "_psout.txt", func(w io.Writer) error { return hexio.WriteDecimal(w, res.PSOut[:]) }},
			job{"SOUT", base + "_sout.txt", func(w io.Writer) error { return hexio.WriteDecimal(w, res.SOut[:]) }},
			job{"SOUT hex", base + "_sout_hex.txt", func(w io.Writer) error { return hexio.WriteHex8(w, res.SOut[:]) }},
			job{"SOUT binary", base + "_sout_binary.txt", func(w io.Writer) error { return hexio.WriteBinary8(w, res.SOut[:]) }},
			job{"SOUT modified", base + "_sout_modified.txt", func(w io.Writer) error {
				return hexio.WriteSoutStream(w, res.SOut[:], mode.SoutBits())
			}},
		)
	} else {
		jobs = append(jobs, job{"PSOUT", outputPath, func(w io.Writer) error { return hexio.WriteDecimal(w, res.PSOut[:]) }})
	}
	jobs = append(jobs,
		job{"ACCU", filepath.Join(dir, "accu.txt"), func(w io.Writer) error { return hexio.WriteDecimal(w, res.Accu[:]) }},
		job{"ACCU hex", base + "_accu_hex.txt", func(w io.Writer) error { return hexio.WriteHex32(w, res.Accu[:]) }},
		job{"PSOUT hex", base + "_psout_hex.txt", func(w io.Writer) error { return hexio.WriteHex32(w, res.PSOut[:]) }},
	)

	out := make([]Output, 0, len(jobs))
	for _, j := range jobs {
		if err := hexio.WriteFile(j.path, j.write); err != nil {
			return out, err
		}
		out = append(out, Output{Label: j.label, Path: j.path})
	}
	return out, nil
}
