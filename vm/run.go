package vm

import (
	"context"

	"github.com/ivylang/ivy/bytecode"
)

// Run executes the given code in a new VirtualMachine and returns the
// statistics of the run.
func Run(ctx context.Context, code *bytecode.Code, options ...Option) (Stats, error) {
	machine := New(code, options...)
	err := machine.Run(ctx)
	return machine.Stats(), err
}
