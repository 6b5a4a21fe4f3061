// Package vm provides a VirtualMachine that executes compiled Ivy bytecode.
//
// The machine has an operand stack of 64-bit integers, a locals store indexed
// by slot, and an instruction pointer into an immutable byte buffer. It runs
// until the instruction pointer reaches the end of the buffer or a fault
// occurs. Every fault is fatal and is returned as an *errz.Fault.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/errz"
	"github.com/ivylang/ivy/op"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxStackDepth = 1024
	DefaultMaxLocals     = 65536

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned when an observer stops execution.
var ErrHalted = errors.New("execution halted by observer")

// Stats describes the most recent run of a VirtualMachine.
type Stats struct {
	Steps     int64 // instructions executed
	Prints    int64 // values written to the output
	PeakStack int   // deepest operand stack seen
	Locals    int   // size of the locals store when the run ended
}

type VirtualMachine struct {
	ip     int // instruction pointer
	main   []byte
	code   []byte
	stack  []int64
	locals []int64
	out    io.Writer
	debug  *bytecode.DebugInfo
	logger zerolog.Logger
	stats  Stats

	maxStackDepth        int
	maxLocals            int
	stepLimit            int64
	contextCheckInterval int
	observer             Observer

	running  bool
	runMutex sync.Mutex
	buf      []byte
}

// New creates a new VirtualMachine that will execute the given code.
func New(code *bytecode.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 code.Bytes(),
		out:                  os.Stdout,
		logger:               zerolog.Nop(),
		maxStackDepth:        DefaultMaxStackDepth,
		maxLocals:            DefaultMaxLocals,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.maxStackDepth <= 0 {
		vm.maxStackDepth = DefaultMaxStackDepth
	}
	if vm.maxLocals <= 0 {
		vm.maxLocals = DefaultMaxLocals
	}
	vm.stack = make([]int64, 0, min(vm.maxStackDepth, 64))
	return vm
}

// Run executes the code the machine was created with from the first
// instruction, starting with an empty stack and an empty locals store.
func (vm *VirtualMachine) Run(ctx context.Context) error {
	if err := vm.start(); err != nil {
		return err
	}
	defer vm.stop()
	vm.code = vm.main
	vm.locals = vm.locals[:0]
	return vm.run(ctx)
}

// RunCode replaces the machine's code and executes it from the first
// instruction. The locals store is kept, so slots written by an earlier run
// remain readable. The REPL relies on this to carry bindings across lines.
func (vm *VirtualMachine) RunCode(ctx context.Context, code *bytecode.Code, opts ...Option) error {
	if err := vm.start(); err != nil {
		return err
	}
	defer vm.stop()
	for _, opt := range opts {
		opt(vm)
	}
	vm.code = code.Bytes()
	return vm.run(ctx)
}

// Locals returns a copy of the locals store.
func (vm *VirtualMachine) Locals() []int64 {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	locals := make([]int64, len(vm.locals))
	copy(locals, vm.locals)
	return locals
}

// Stack returns a copy of the operand stack, bottom first.
func (vm *VirtualMachine) Stack() []int64 {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	stack := make([]int64, len(vm.stack))
	copy(stack, vm.stack)
	return stack
}

// Stats returns counters for the most recent run.
func (vm *VirtualMachine) Stats() Stats {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	return vm.stats
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

func (vm *VirtualMachine) run(ctx context.Context) error {
	vm.ip = 0
	vm.stack = vm.stack[:0]
	vm.stats = Stats{}
	vm.logger.Debug().Int("size", len(vm.code)).Int("locals", len(vm.locals)).Msg("vm run")

	err := vm.eval(ctx)
	vm.stats.Locals = len(vm.locals)
	if err != nil {
		vm.logger.Debug().Err(err).Int64("steps", vm.stats.Steps).Msg("vm halted")
		return err
	}
	vm.logger.Debug().Int64("steps", vm.stats.Steps).Msg("vm finished")
	return nil
}

// eval runs the fetch, decode, dispatch loop until the instruction pointer
// reaches the end of the code.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	code := vm.code
	end := len(code)
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	var sinceCheck int

	if err := ctx.Err(); err != nil {
		return errz.New(errz.Canceled, 0, "").WithCause(err)
	}

	for vm.ip < end {
		offset := vm.ip

		if checkInterval > 0 && doneChan != nil {
			sinceCheck++
			if sinceCheck >= checkInterval {
				sinceCheck = 0
				select {
				case <-doneChan:
					return vm.fault(errz.Canceled, offset, "", "").WithCause(ctx.Err())
				default:
				}
			}
		}

		if vm.stepLimit > 0 && vm.stats.Steps >= vm.stepLimit {
			return vm.fault(errz.StepLimit, offset, "", "limit is %d", vm.stepLimit)
		}

		opcode := op.Code(code[offset])
		info, ok := op.GetInfo(opcode)
		if !ok {
			return vm.fault(errz.InvalidOpcode, offset, "", "byte 0x%02x", code[offset])
		}
		next := offset + 1
		var operand uint64
		if info.HasOperand() {
			operand, ok = bytecode.ReadOperand(code, next)
			if !ok {
				return vm.fault(errz.TruncatedOperand, offset, info.Name,
					"need %d bytes, have %d", op.OperandWidth, end-next)
			}
			next += op.OperandWidth
		}

		if vm.observer != nil {
			event := StepEvent{
				Offset:     offset,
				Opcode:     opcode,
				OpcodeName: info.Name,
				Operand:    operand,
				HasOperand: info.HasOperand(),
				StackDepth: len(vm.stack),
				Line:       vm.debug.LineFor(offset),
			}
			if !vm.observer.OnStep(event) {
				return ErrHalted
			}
		}

		vm.ip = next
		vm.stats.Steps++

		switch opcode {
		case op.Nop:
		case op.PushInt:
			if err := vm.push(offset, info, int64(operand)); err != nil {
				return err
			}
		case op.Pop:
			if _, err := vm.pop(offset, info); err != nil {
				return err
			}
		case op.Add, op.Sub, op.Mul, op.Div,
			op.CmpLess, op.CmpGreater,
			op.ShiftLeft, op.ShiftRight:
			if err := vm.binaryOp(offset, info); err != nil {
				return err
			}
		case op.StoreLocal:
			value, err := vm.pop(offset, info)
			if err != nil {
				return err
			}
			if operand >= uint64(vm.maxLocals) {
				return vm.fault(errz.LocalOutOfRange, offset, info.Name,
					"slot %d exceeds limit of %d", operand, vm.maxLocals)
			}
			slot := int(operand)
			if slot >= len(vm.locals) {
				vm.locals = append(vm.locals, make([]int64, slot+1-len(vm.locals))...)
			}
			vm.locals[slot] = value
		case op.LoadLocal:
			if operand >= uint64(len(vm.locals)) {
				return vm.fault(errz.LocalOutOfRange, offset, info.Name,
					"slot %d, %d locals defined", operand, len(vm.locals))
			}
			if err := vm.push(offset, info, vm.locals[operand]); err != nil {
				return err
			}
		case op.JumpAbsolute:
			if operand > uint64(end) {
				return vm.fault(errz.InvalidJump, offset, info.Name,
					"target %d outside [0, %d]", operand, end)
			}
			vm.ip = int(operand)
		case op.JumpRelative:
			if err := vm.jump(offset, info, next, operand); err != nil {
				return err
			}
		case op.JumpIfZero, op.JumpIfNotZero:
			value, err := vm.pop(offset, info)
			if err != nil {
				return err
			}
			if (value == 0) == (opcode == op.JumpIfZero) {
				if err := vm.jump(offset, info, next, operand); err != nil {
					return err
				}
			}
		case op.Print:
			value, err := vm.pop(offset, info)
			if err != nil {
				return err
			}
			vm.buf = strconv.AppendInt(vm.buf[:0], value, 10)
			vm.buf = append(vm.buf, '\n')
			if _, err := vm.out.Write(vm.buf); err != nil {
				return vm.fault(errz.OutputFailure, offset, info.Name, "").WithCause(err)
			}
			vm.stats.Prints++
		default:
			return vm.fault(errz.InvalidOpcode, offset, info.Name, "no handler")
		}
	}
	return nil
}

func (vm *VirtualMachine) push(offset int, info op.Info, value int64) error {
	if len(vm.stack) >= vm.maxStackDepth {
		return vm.fault(errz.StackOverflow, offset, info.Name, "depth limit is %d", vm.maxStackDepth)
	}
	vm.stack = append(vm.stack, value)
	if len(vm.stack) > vm.stats.PeakStack {
		vm.stats.PeakStack = len(vm.stack)
	}
	return nil
}

func (vm *VirtualMachine) pop(offset int, info op.Info) (int64, error) {
	top := len(vm.stack) - 1
	if top < 0 {
		return 0, vm.fault(errz.StackUnderflow, offset, info.Name, "")
	}
	value := vm.stack[top]
	vm.stack = vm.stack[:top]
	return value, nil
}

// binaryOp pops the left operand, then the right operand, and pushes the
// result. The compiler pushes the right operand first so the left one ends
// up on top.
func (vm *VirtualMachine) binaryOp(offset int, info op.Info) error {
	if len(vm.stack) < 2 {
		return vm.fault(errz.StackUnderflow, offset, info.Name,
			"need 2 operands, have %d", len(vm.stack))
	}
	top := len(vm.stack) - 1
	a, b := vm.stack[top], vm.stack[top-1]
	vm.stack = vm.stack[:top-1]

	var result int64
	switch info.Code {
	case op.Add:
		result = a + b
	case op.Sub:
		result = a - b
	case op.Mul:
		result = a * b
	case op.Div:
		if b == 0 {
			return vm.fault(errz.DivisionByZero, offset, info.Name, "")
		}
		result = a / b
	case op.CmpLess:
		result = boolToInt(a < b)
	case op.CmpGreater:
		result = boolToInt(a > b)
	case op.ShiftLeft:
		if b < 0 {
			return vm.fault(errz.NegativeShift, offset, info.Name, "count %d", b)
		}
		result = a << uint64(b)
	case op.ShiftRight:
		if b < 0 {
			return vm.fault(errz.NegativeShift, offset, info.Name, "count %d", b)
		}
		result = a >> uint64(b)
	}
	vm.stack = append(vm.stack, result)
	return nil
}

// jump moves the instruction pointer by a signed offset measured from the
// end of the jump's operand. Landing exactly on the end of the code halts
// the machine normally.
func (vm *VirtualMachine) jump(offset int, info op.Info, next int, operand uint64) error {
	target := int64(next) + int64(operand)
	if target < 0 || target > int64(len(vm.code)) {
		return vm.fault(errz.InvalidJump, offset, info.Name,
			"target %d outside [0, %d]", target, len(vm.code))
	}
	vm.ip = int(target)
	return nil
}

func (vm *VirtualMachine) fault(kind errz.Kind, offset int, opName string, format string, args ...any) *errz.Fault {
	f := errz.New(kind, offset, format, args...).WithOpcode(opName)
	f.Line = vm.debug.LineFor(offset)
	return f
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
