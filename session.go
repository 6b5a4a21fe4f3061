package ivy

import (
	"context"

	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/compiler"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/parser"
	"github.com/ivylang/ivy/source"
	"github.com/ivylang/ivy/vm"
	"github.com/rs/zerolog"
)

// ReplFilename names input evaluated by a Session.
const ReplFilename = "<repl>"

// Session provides stateful execution for REPL and incremental evaluation.
// Unlike Run, which starts from scratch on every call, a Session keeps its
// variables across calls to Eval.
//
// A Session is not safe for concurrent use.
type Session struct {
	machine *vm.VirtualMachine
	symbols *compiler.SymbolTable
	logger  zerolog.Logger
}

// NewSession creates a Session. Options that configure the virtual machine
// apply to every Eval call.
func NewSession(opts ...Option) *Session {
	o := collectOptions(opts...)
	o.logger = o.logger.With().Str("run_id", newRunID()).Logger()
	return &Session{
		machine: vm.New(bytecode.New(nil), o.vmOpts()...),
		symbols: compiler.NewSymbolTable(),
		logger:  o.logger,
	}
}

// Eval compiles and runs input. Variables bound by earlier calls are
// visible to it. If the input does not compile, none of its bindings are
// kept and nothing runs. The diagnostics for the input are always returned,
// so callers can show warnings as well as errors.
func (s *Session) Eval(ctx context.Context, input string) (*errors.Diagnostics, error) {
	diags := errors.NewDiagnostics(source.FromString(ReplFilename, input))
	program, err := parser.Parse(ctx, input, parser.WithDiagnostics(diags))
	if err != nil {
		return diags, err
	}
	symbols := s.symbols.Clone()
	c := compiler.New(
		compiler.WithSymbols(symbols),
		compiler.WithDiagnostics(diags),
		compiler.WithLogger(s.logger),
	)
	code := c.CompileProgram(program)
	if err := diags.Err(); err != nil {
		return diags, err
	}
	s.symbols = symbols
	return diags, s.machine.RunCode(ctx, code, vm.WithDebugInfo(c.DebugInfo()))
}

// Get returns the current value of a variable. The second result is false
// if the variable is not bound, or was bound by input that faulted before
// storing it.
func (s *Session) Get(name string) (int64, bool) {
	sym, ok := s.symbols.Resolve(name)
	if !ok {
		return 0, false
	}
	locals := s.machine.Locals()
	if sym.Slot() >= uint64(len(locals)) {
		return 0, false
	}
	return locals[sym.Slot()], true
}

// Names returns the bound variable names in slot order.
func (s *Session) Names() []string {
	return s.symbols.Names()
}
