package vm

import (
	"github.com/ivylang/ivy/op"
	"github.com/rs/zerolog"
)

// Observer receives a callback before each instruction executes. It can be
// used for tracing, coverage, or single stepping without touching the
// dispatch loop.
//
// OnStep is called synchronously, so implementations should be fast.
// Returning false halts execution immediately.
type Observer interface {
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

// OnStep calls f(event).
func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}

// StepEvent describes the instruction about to execute.
type StepEvent struct {
	// Offset is the byte offset of the instruction.
	Offset int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the mnemonic of the opcode.
	OpcodeName string

	// Operand is the raw operand, valid when HasOperand is true.
	Operand    uint64
	HasOperand bool

	// StackDepth is the depth of the operand stack before the instruction.
	StackDepth int

	// Line is the source line, or 0 without debug info.
	Line int
}

// LogObserver writes every step to a zerolog logger at debug level.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver returns an observer that traces execution to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnStep(event StepEvent) bool {
	e := o.logger.Debug().
		Int("offset", event.Offset).
		Str("op", event.OpcodeName).
		Int("stack", event.StackDepth)
	if event.HasOperand {
		info, _ := op.GetInfo(event.Opcode)
		if info.Operand.Signed() {
			e = e.Int64("operand", int64(event.Operand))
		} else {
			e = e.Uint64("operand", event.Operand)
		}
	}
	if event.Line > 0 {
		e = e.Int("line", event.Line)
	}
	e.Msg("step")
	return true
}
