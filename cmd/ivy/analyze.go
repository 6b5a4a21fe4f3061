package main

import (
	"github.com/ivylang/ivy"
	"github.com/spf13/cobra"
)

func (c *cli) analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [FILE]",
		Short: "Check source code for syntax errors",
		Long:  "Lex and parse source code and report every diagnostic found, without compiling it.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.analyze,
	}
	addSourceFlags(cmd)
	return cmd
}

func (c *cli) analyze(cmd *cobra.Command, args []string) error {
	src, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	_, diags, err := ivy.Analyze(cmd.Context(), src,
		ivy.WithFilename(filename),
		ivy.WithLogger(c.logger))
	if err != nil {
		return report(cmd.ErrOrStderr(), err, diags)
	}
	printDiagnostics(cmd.ErrOrStderr(), diags)
	return nil
}
