package main

import (
	"fmt"
	"io"

	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/vm"
	"github.com/spf13/cobra"
)

func (c *cli) runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Compile and run source code",
		Long: "Compile and run source code in one step. Nothing runs if compilation\n" +
			"reports an error.",
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	addSourceFlags(cmd)
	cmd.Flags().Bool("stats", false, "print execution statistics to stderr")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	src, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	diags := newDiagnostics(filename, src)
	program, err := ivy.Compile(cmd.Context(), src,
		ivy.WithFilename(filename),
		ivy.WithDiagnostics(diags),
		ivy.WithLogger(c.logger))
	if err != nil {
		return report(cmd.ErrOrStderr(), err, diags)
	}
	printDiagnostics(cmd.ErrOrStderr(), diags)

	stats, err := program.Run(cmd.Context(), c.ivyOptions(cmd)...)
	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		printStats(cmd.ErrOrStderr(), stats)
	}
	return report(cmd.ErrOrStderr(), err, nil)
}

func printStats(w io.Writer, stats vm.Stats) {
	fmt.Fprintf(w, "steps: %d, prints: %d, peak stack: %d, locals: %d\n",
		stats.Steps, stats.Prints, stats.PeakStack, stats.Locals)
}
