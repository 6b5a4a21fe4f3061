package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/dis"
	"github.com/spf13/cobra"
)

var outputFormatsCompletion = []string{"json", "text"}

func (c *cli) disCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dis [FILE" + BytecodeExtension + "]",
		Aliases: []string{"disasm"},
		Short:   "Disassemble bytecode",
		Long: "Disassemble a bytecode file, or compile and disassemble source given\n" +
			"with --code or --stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: c.dis,
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output format: json or text")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *cli) dis(cmd *cobra.Command, args []string) error {
	code, debug, err := c.disTarget(cmd, args)
	if err != nil {
		return err
	}

	// A listing of whatever decoded is still printed for malformed input.
	instructions, decodeErr := dis.Disassemble(code, debug)
	if instructions == nil {
		instructions = []dis.Instruction{}
	}
	format, _ := cmd.Flags().GetString("output")
	switch strings.ToLower(format) {
	case "", "text":
		err = dis.Print(instructions, cmd.OutOrStdout())
	case "json":
		err = writeJSON(cmd.OutOrStdout(), instructions, color.NoColor)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}
	return decodeErr
}

// disTarget loads the code to disassemble: a bytecode file, or source code
// compiled on the spot.
func (c *cli) disTarget(cmd *cobra.Command, args []string) (*bytecode.Code, *bytecode.DebugInfo, error) {
	sourceFlags := cmd.Flags().Changed("code") || cmd.Flags().Changed("stdin")
	if len(args) == 1 && !sourceFlags {
		return loadBytecode(args[0])
	}
	src, filename, err := readSource(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	diags := newDiagnostics(filename, src)
	program, err := ivy.Compile(cmd.Context(), src,
		ivy.WithFilename(filename),
		ivy.WithDiagnostics(diags),
		ivy.WithLogger(c.logger))
	if err != nil {
		return nil, nil, report(cmd.ErrOrStderr(), err, diags)
	}
	return program.Code(), program.DebugInfo(), nil
}
