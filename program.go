package ivy

import (
	"context"

	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/vm"
)

// Program is the compiled representation of Ivy source code.
// It is immutable after creation and safe for concurrent use.
// Multiple goroutines can call Run on the same Program simultaneously.
type Program struct {
	code   *bytecode.Code
	debug  *bytecode.DebugInfo
	diags  *errors.Diagnostics
	source string
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename recorded in the program's debug info.
func (p *Program) Filename() string {
	return p.debug.Filename
}

// Code returns the program's bytecode.
func (p *Program) Code() *bytecode.Code {
	return p.code
}

// DebugInfo returns the slot names and line table of the program.
func (p *Program) DebugInfo() *bytecode.DebugInfo {
	return p.debug
}

// LocalNames returns the variable bound to each slot, in slot order.
func (p *Program) LocalNames() []string {
	names := make([]string, len(p.debug.Locals))
	copy(names, p.debug.Locals)
	return names
}

// Warnings returns the warnings reported while compiling.
func (p *Program) Warnings() []*errors.Diagnostic {
	return p.diags.Warnings()
}

// Run executes the program in a fresh virtual machine. Runtime faults carry
// the source line of the faulting instruction.
func (p *Program) Run(ctx context.Context, opts ...Option) (vm.Stats, error) {
	opts = append(opts, WithDebugInfo(p.debug))
	return Execute(ctx, p.code, opts...)
}
