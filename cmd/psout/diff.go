package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"psmac-go/internal/hexio"
)

var errMismatch = errors.New("dumps differ")

func newDiffCmd() *cobra.Command {
	var (
		expected string
		actual   string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare an expected output dump with a DUT dump",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := hexio.ParseFormat(format)
			if err != nil {
				return err
			}
			exp, err := hexio.ReadDump(expected, f)
			if err != nil {
				return fmt.Errorf("read expected: %w", err)
			}
			got, err := hexio.ReadDump(actual, f)
			if err != nil {
				return fmt.Errorf("read actual: %w", err)
			}
			mismatches, lenErr := hexio.CompareDumps(exp, got)
			out := cmd.OutOrStdout()
			for _, m := range mismatches {
				fmt.Fprintf(out, "kernel=%d expected=%d actual=%d\n", m.Index, m.Expected, m.Actual)
			}
			if lenErr != nil {
				return lenErr
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%w: %d of %d values", errMismatch, len(mismatches), len(exp))
			}
			fmt.Fprintf(out, "match values=%d\n", len(exp))
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "expected", "", "Golden dump")
	cmd.Flags().StringVar(&actual, "actual", "", "DUT dump")
	cmd.Flags().StringVar(&format, "format", string(hexio.FormatDecimal), "Dump format: dec, hex32, hex8, bin8")
	_ = cmd.MarkFlagRequired("expected")
	_ = cmd.MarkFlagRequired("actual")
	return cmd
}
