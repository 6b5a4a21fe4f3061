package main

import (
	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/bytecode"
	"github.com/spf13/cobra"
)

func (c *cli) executeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "execute FILE" + BytecodeExtension,
		Short: "Run a compiled bytecode file",
		Long: "Run a bytecode file written by compile. When a " + bytecode.DebugExtension + " sidecar\n" +
			"is present, runtime errors report the source line.",
		Args: cobra.ExactArgs(1),
		RunE: c.execute,
	}
}

func (c *cli) execute(cmd *cobra.Command, args []string) error {
	code, debug, err := loadBytecode(args[0])
	if err != nil {
		return err
	}
	opts := c.ivyOptions(cmd)
	if debug != nil {
		opts = append(opts, ivy.WithDebugInfo(debug))
	}
	_, err = ivy.Execute(cmd.Context(), code, opts...)
	return report(cmd.ErrOrStderr(), err, nil)
}

// loadBytecode reads a bytecode file and its debug sidecar, if any.
func loadBytecode(path string) (*bytecode.Code, *bytecode.DebugInfo, error) {
	if err := checkBytecodePath(path); err != nil {
		return nil, nil, err
	}
	code, err := bytecode.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	debug, err := bytecode.ReadDebugFile(path)
	if err != nil {
		return nil, nil, err
	}
	return code, debug, nil
}
