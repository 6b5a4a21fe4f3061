package ivy

import (
	"io"

	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/vm"
	"github.com/rs/zerolog"
)

// Option configures an Ivy compilation or execution.
type Option func(*options)

type options struct {
	filename  string
	diags     *errors.Diagnostics
	output    io.Writer
	logger    zerolog.Logger
	observer  vm.Observer
	debug     *bytecode.DebugInfo
	maxStack  int
	maxLocals int
	stepLimit int64
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.debug != nil {
		opts = append(opts, vm.WithDebugInfo(o.debug))
	}
	if o.maxStack > 0 {
		opts = append(opts, vm.WithMaxStackDepth(o.maxStack))
	}
	if o.maxLocals > 0 {
		opts = append(opts, vm.WithMaxLocals(o.maxLocals))
	}
	if o.stepLimit > 0 {
		opts = append(opts, vm.WithStepLimit(o.stepLimit))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// It is used in diagnostics and recorded in debug info.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithDiagnostics sets the collector that Analyze and Compile report to.
// Supplying one gives the caller every diagnostic, warnings included, even
// when compilation fails.
func WithDiagnostics(diags *errors.Diagnostics) Option {
	return func(o *options) {
		o.diags = diags
	}
}

// WithOutput sets the writer that print statements write to. The default
// is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the logger for compilation and execution messages.
// Each execution adds a run_id field to it.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets an observer that is called before each instruction.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithDebugInfo attaches debug info to an Execute call, so runtime faults
// report source lines. Programs returned by Compile carry their own.
func WithDebugInfo(info *bytecode.DebugInfo) Option {
	return func(o *options) {
		o.debug = info
	}
}

// WithMaxStackDepth limits the depth of the operand stack.
func WithMaxStackDepth(depth int) Option {
	return func(o *options) {
		o.maxStack = depth
	}
}

// WithMaxLocals limits the size of the locals store.
func WithMaxLocals(n int) Option {
	return func(o *options) {
		o.maxLocals = n
	}
}

// WithStepLimit stops execution after n instructions.
func WithStepLimit(n int64) Option {
	return func(o *options) {
		o.stepLimit = n
	}
}
