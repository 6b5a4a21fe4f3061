package main

import (
	"errors"
	"io"
	"os"

	"github.com/ivylang/ivy"
	ivyerrors "github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/source"
	"github.com/spf13/cobra"
)

const stdinFilename = "<stdin>"

// addSourceFlags registers the flags that let a command read source from
// somewhere other than a file argument.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "source code to use instead of a file")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
}

// readSource determines the source code a command operates on and the name
// diagnostics should use for it. There are three possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. path as args[0]
func readSource(cmd *cobra.Command, args []string) (src, filename string, err error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet, _ = cmd.Flags().GetBool("stdin")
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), stdinFilename, nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return code, ivy.DefaultFilename, nil
	}
	return "", "", errors.New("no input provided")
}

// newDiagnostics returns a collector for src. Only real files carry a path.
func newDiagnostics(filename, src string) *ivyerrors.Diagnostics {
	if filename == stdinFilename || filename == ivy.DefaultFilename {
		return ivyerrors.NewDiagnostics(source.FromString(filename, src))
	}
	return ivyerrors.NewDiagnostics(source.FromFile(filename, src))
}
