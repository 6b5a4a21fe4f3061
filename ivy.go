// Package ivy compiles and runs programs written in Ivy, a small language
// of 64-bit integers, local variables, conditionals and loops.
//
// Source goes through a lexer and parser to an AST, then through the
// compiler to a flat bytecode buffer that the virtual machine executes:
//
//	program, err := ivy.Compile(ctx, "let x = 6; print x * 7;")
//	if err != nil {
//		return err
//	}
//	_, err = program.Run(ctx)
//
// Compile-time problems are reported as diagnostics (see the errors
// package); runtime faults are *errz.Fault values.
package ivy

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/ivylang/ivy/ast"
	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/compiler"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/parser"
	"github.com/ivylang/ivy/source"
	"github.com/ivylang/ivy/vm"
)

// DefaultFilename names source that did not come from a file.
const DefaultFilename = "<input>"

func (o *options) diagnostics(src string) *errors.Diagnostics {
	if o.diags != nil {
		return o.diags
	}
	filename := o.filename
	if filename == "" {
		filename = DefaultFilename
	}
	return errors.NewDiagnostics(source.FromString(filename, src))
}

// Analyze lexes and parses source code without compiling it. The returned
// collector holds every diagnostic found; the error is non-nil if any of
// them is an error, or if ctx was cancelled.
func Analyze(ctx context.Context, src string, opts ...Option) (*ast.Program, *errors.Diagnostics, error) {
	o := collectOptions(opts...)
	diags := o.diagnostics(src)
	program, err := parser.Parse(ctx, src, parser.WithDiagnostics(diags))
	o.logger.Debug().
		Int("statements", len(program.Stmts)).
		Int("errors", diags.ErrorCount()).
		Msg("analyzed source")
	return program, diags, err
}

// Compile parses and compiles source code into an executable Program.
// Compilation stops after parsing if there are syntax errors. The returned
// Program is immutable and safe for concurrent use.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	diags := o.diagnostics(src)
	program, err := parser.Parse(ctx, src, parser.WithDiagnostics(diags))
	if err != nil {
		return nil, err
	}
	c := compiler.New(
		compiler.WithDiagnostics(diags),
		compiler.WithFilename(o.filename),
		compiler.WithLogger(o.logger),
	)
	code := c.CompileProgram(program)
	if err := diags.Err(); err != nil {
		return nil, err
	}
	return &Program{
		code:   code,
		debug:  c.DebugInfo(),
		diags:  diags,
		source: src,
	}, nil
}

// Execute runs compiled bytecode in a fresh virtual machine. Each call gets
// its own run id, which is attached to every log message of the run.
func Execute(ctx context.Context, code *bytecode.Code, opts ...Option) (vm.Stats, error) {
	o := collectOptions(opts...)
	o.logger = o.logger.With().Str("run_id", newRunID()).Logger()
	o.logger.Debug().Int("bytes", code.Len()).Msg("executing")
	stats, err := vm.Run(ctx, code, o.vmOpts()...)
	if err != nil {
		o.logger.Debug().Err(err).Int64("steps", stats.Steps).Msg("execution failed")
		return stats, err
	}
	o.logger.Debug().Int64("steps", stats.Steps).Int64("prints", stats.Prints).Msg("execution finished")
	return stats, nil
}

// Run is a convenience function that compiles and runs source code. Nothing
// is executed if compilation reports any error.
func Run(ctx context.Context, src string, opts ...Option) (vm.Stats, error) {
	program, err := Compile(ctx, src, opts...)
	if err != nil {
		return vm.Stats{}, err
	}
	return program.Run(ctx, opts...)
}

func newRunID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
