package vm

import (
	"io"

	"github.com/ivylang/ivy/bytecode"
	"github.com/rs/zerolog"
)

// Option is a configuration function for a VirtualMachine.
type Option func(*VirtualMachine)

// WithOutput sets the writer that PRINT writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.out = w
	}
}

// WithMaxStackDepth limits the depth of the operand stack. Pushing past the
// limit raises a stack overflow fault.
func WithMaxStackDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxStackDepth = depth
	}
}

// WithMaxLocals limits the number of slots the locals store may grow to.
func WithMaxLocals(n int) Option {
	return func(vm *VirtualMachine) {
		vm.maxLocals = n
	}
}

// WithStepLimit stops execution with a fault after n instructions. Zero
// means no limit.
func WithStepLimit(n int64) Option {
	return func(vm *VirtualMachine) {
		vm.stepLimit = n
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in number of instructions. A value of 0 disables the check
// inside the loop; cancellation is then only noticed before the run starts.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer that is called before each instruction.
// Returning false from OnStep halts execution with ErrHalted.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithDebugInfo attaches debug info so faults and step events carry source
// line numbers.
func WithDebugInfo(info *bytecode.DebugInfo) Option {
	return func(vm *VirtualMachine) {
		vm.debug = info
	}
}
