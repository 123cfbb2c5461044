package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"psmac-go/internal/mac"
	"psmac-go/pkg/psmac"
)

type rootOptions struct {
	workers int
	verbose int
}

func (o *rootOptions) logger() logr.Logger {
	stdr.SetVerbosity(o.verbose)
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "psout KERNEL FEATURE PSIN ADDIN OUTPUT MODE SIGN_8B PS_FIRST PS_MODE PS_LAST",
		Short: "Golden reference model of the partial-sum MAC datapath",
		Long: `psout computes accu, psout and sout for a bank of 32 kernels against one
feature vector, bit-exact with the hardware saturation rules.

  KERNEL    32 lines of 256 hex digits
  FEATURE   1 line of 256 hex digits
  PSIN      32 lines of 8 hex digits
  ADDIN     32 lines of 8 hex digits
  OUTPUT    output file; derived names share its directory and stem
  MODE      00 (1-bit), 01 (2-bit), 10 (4-bit), 11 (8-bit)
  SIGN_8B   <kernel><feature> signedness for mode 11, e.g. 10
  PS_*      chain stage flags, exactly one must be 1`,
		Args:          cobra.ExactArgs(10),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacy(cmd, opts, args)
		},
	}
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Kernels reduced concurrently (0 = GOMAXPROCS or PSMAC_WORKERS)")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", 0, "Log verbosity")
	cmd.AddCommand(newGenCmd(opts), newDiffCmd())
	return cmd
}

func runLegacy(cmd *cobra.Command, opts *rootOptions, args []string) error {
	first, err := mac.ParseFlag(args[7], "PS_FIRST")
	if err != nil {
		return err
	}
	modeFlag, err := mac.ParseFlag(args[8], "PS_MODE")
	if err != nil {
		return err
	}
	last, err := mac.ParseFlag(args[9], "PS_LAST")
	if err != nil {
		return err
	}

	rep, err := psmac.Run(cmd.Context(), psmac.Request{
		KernelPath:  args[0],
		FeaturePath: args[1],
		PSInPath:    args[2],
		AddInPath:   args[3],
		OutputPath:  args[4],
		Mode:        args[5],
		Sign:        args[6],
		First:       first,
		ModeFlag:    modeFlag,
		Last:        last,
		Workers:     opts.workers,
		Logger:      opts.logger(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, o := range rep.Outputs {
		fmt.Fprintf(out, "%s written to %s\n", o.Label, o.Path)
	}
	fmt.Fprintf(out, "mode=%s sign=%s stage=%s kernels=%d digest=%016x\n",
		rep.Mode.Code(), rep.Mode.SignCode(), rep.Stage, mac.Kernels, rep.Result.Digest())
	return nil
}
