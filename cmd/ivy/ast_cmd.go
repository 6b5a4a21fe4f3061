package main

import (
	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/ast"
	"github.com/spf13/cobra"
)

func (c *cli) astCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [FILE]",
		Short: "Print the syntax tree of source code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.ast,
	}
	addSourceFlags(cmd)
	return cmd
}

func (c *cli) ast(cmd *cobra.Command, args []string) error {
	src, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	program, diags, err := ivy.Analyze(cmd.Context(), src,
		ivy.WithFilename(filename),
		ivy.WithLogger(c.logger))
	if err != nil {
		return report(cmd.ErrOrStderr(), err, diags)
	}
	return ast.Fprint(cmd.OutOrStdout(), program)
}
