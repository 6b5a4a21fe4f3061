package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/internal/table"
	"github.com/spf13/cobra"
)

const (
	replPrompt = ">>> "
	replHelp   = `Enter statements to run them. Variables persist between lines.
A missing trailing ";" is added for you.

  :vars   show every variable and its value
  :help   show this message
  :quit   leave the REPL (Ctrl-D on an empty line also works)
`
)

func (c *cli) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE:  c.repl,
	}
}

func (c *cli) repl(cmd *cobra.Command, args []string) error {
	if cmd.InOrStdin() == os.Stdin && isTerminalIO() {
		return c.terminalRepl(cmd)
	}
	session := ivy.NewSession(c.ivyOptions(cmd)...)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if c.evalLine(cmd.Context(), session, scanner.Text(), cmd.OutOrStdout(), cmd.ErrOrStderr()) {
			return nil
		}
	}
	return scanner.Err()
}

// terminalRepl reads lines with a small line editor while the terminal is
// in raw mode.
func (c *cli) terminalRepl(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := crlfWriter{w: cmd.OutOrStdout()}
	errOut := crlfWriter{w: cmd.ErrOrStderr()}
	opts := append(c.ivyOptions(cmd), ivy.WithOutput(out))
	session := ivy.NewSession(opts...)
	editor := newLineEditor(replPrompt)

	fmt.Fprintf(out, "Ivy %s. Type :help for help.\n", version)
	editor.render(out)
	return keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		if ctx.Err() != nil {
			return true, nil
		}
		switch editor.handle(key) {
		case actionQuit:
			fmt.Fprint(out, "\n")
			return true, nil
		case actionSubmit:
			line := editor.take()
			fmt.Fprint(out, "\n")
			if c.evalLine(ctx, session, line, out, errOut) {
				return true, nil
			}
		}
		editor.render(out)
		return false, nil
	})
}

// evalLine runs one line of REPL input. It returns true when the user asked
// to leave.
func (c *cli) evalLine(ctx context.Context, session *ivy.Session, line string, out, errOut io.Writer) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprint(out, replHelp)
		return false
	case ":vars":
		if err := printVars(out, session); err != nil {
			fmt.Fprintln(errOut, red(err.Error()))
		}
		return false
	}
	if strings.HasPrefix(line, ":") {
		fmt.Fprintln(errOut, red(fmt.Sprintf("unknown command %s (try :help)", line)))
		return false
	}

	diags, err := session.Eval(ctx, terminate(line))
	if !diags.HasErrors() {
		printDiagnostics(errOut, diags)
	}
	if err == nil {
		return false
	}
	c.logger.Debug().Err(err).Msg("repl input failed")
	var reported *reportedError
	if !errors.As(report(errOut, err, diags), &reported) {
		fmt.Fprintln(errOut, red(err.Error()))
	}
	return false
}

// terminate adds the semicolon a one-line statement usually lacks. Lines
// ending a block with "end" are left alone.
func terminate(line string) string {
	if strings.HasSuffix(line, ";") {
		return line
	}
	fields := strings.Fields(line)
	if len(fields) > 1 && fields[len(fields)-1] == "end" {
		return line
	}
	return line + ";"
}

func printVars(w io.Writer, session *ivy.Session) error {
	seen := map[string]bool{}
	var rows [][]string
	for _, name := range session.Names() {
		if seen[name] {
			continue
		}
		seen[name] = true
		value := "(unset)"
		if v, ok := session.Get(name); ok {
			value = strconv.FormatInt(v, 10)
		}
		rows = append(rows, []string{name, value})
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no variables")
		return err
	}
	return table.NewTable(w).
		WithHeader([]string{"NAME", "VALUE"}).
		WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignRight}).
		WithRows(rows).
		Render()
}
