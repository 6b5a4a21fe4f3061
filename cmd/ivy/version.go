package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func versionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			switch strings.ToLower(format) {
			case "json":
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, color.NoColor)
			case "", "text":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
				return err
			default:
				return fmt.Errorf("unknown output format: %s", format)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "", "output format: json or text")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
