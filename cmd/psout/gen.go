package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"psmac-go/internal/mac"
	"psmac-go/internal/stimulus"
)

func newGenCmd(root *rootOptions) *cobra.Command {
	var (
		dir     string
		seed    int64
		pattern string
		mode    string
		sign    string
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a seeded stimulus set (kernel.hex, feature.hex, psin.hex, addin.hex)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := stimulus.ParsePattern(pattern)
			if err != nil {
				return err
			}
			m, err := mac.ParseMode(mode, sign)
			if err != nil {
				return err
			}
			set, err := stimulus.Generate(seed, p, m)
			if err != nil {
				return err
			}
			files := stimulus.FilesIn(dir)
			if err := set.Write(files); err != nil {
				return err
			}
			root.logger().V(1).Info("stimulus written", "dir", dir, "seed", seed, "pattern", string(p), "mode", m.String())
			out := cmd.OutOrStdout()
			for _, path := range []string{files.Kernel, files.Feature, files.PSIn, files.AddIn} {
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Deterministic seed")
	cmd.Flags().StringVar(&pattern, "pattern", string(stimulus.PatternRandom), "Pattern: random, match, extreme")
	cmd.Flags().StringVar(&mode, "mode", "11", "Mode code the pattern targets (00, 01, 10, 11)")
	cmd.Flags().StringVar(&sign, "sign", "11", "8-bit signedness code <kernel><feature>")
	return cmd
}
