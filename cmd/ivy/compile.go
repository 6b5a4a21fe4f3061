package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/bytecode"
	"github.com/spf13/cobra"
)

// BytecodeExtension is the conventional extension of compiled files.
const BytecodeExtension = ".ibc"

func (c *cli) compileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile source code to a bytecode file",
		Long: "Compile source code to raw bytecode. With --debug-info, slot names and\n" +
			"the line table are written next to it in a " + bytecode.DebugExtension + " file.",
		Args: cobra.ExactArgs(1),
		RunE: c.compile,
	}
	cmd.Flags().StringP("output", "o", "", "output path (default is FILE with a "+BytecodeExtension+" extension)")
	cmd.Flags().Bool("debug-info", false, "also write a debug info sidecar")
	return cmd
}

func (c *cli) compile(cmd *cobra.Command, args []string) error {
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

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = bytecodePath(filename)
	}
	if err := bytecode.WriteFile(out, program.Code()); err != nil {
		return err
	}
	if withDebug, _ := cmd.Flags().GetBool("debug-info"); withDebug {
		if err := bytecode.WriteDebugFile(out, program.DebugInfo()); err != nil {
			return err
		}
	}
	c.logger.Info().
		Str("path", out).
		Int("bytes", program.Code().Len()).
		Int("locals", len(program.LocalNames())).
		Msg("wrote bytecode")
	return nil
}

// bytecodePath replaces the extension of a source path with ".ibc".
func bytecodePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + BytecodeExtension
}

func checkBytecodePath(path string) error {
	if filepath.Ext(path) == bytecode.DebugExtension {
		return fmt.Errorf("%s is a debug info file, not bytecode", path)
	}
	return nil
}
