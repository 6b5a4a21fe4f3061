// Package errz defines the runtime faults raised by the virtual machine.
//
// Every fault is fatal: the machine stops at the faulting instruction and
// returns a *Fault describing it. Callers match on the fault kind with the
// standard errors.Is, since Kind itself implements error:
//
//	if errors.Is(err, errz.DivisionByZero) { ... }
package errz

import (
	"bytes"
	"fmt"
)

// Kind represents the category of a runtime fault.
type Kind int

const (
	// StackUnderflow indicates a pop from an empty operand stack.
	StackUnderflow Kind = iota + 1
	// StackOverflow indicates a push past the configured stack depth.
	StackOverflow
	// LocalOutOfRange indicates a slot outside the locals store.
	LocalOutOfRange
	// DivisionByZero indicates a DIV whose divisor is zero.
	DivisionByZero
	// NegativeShift indicates a shift by a negative count.
	NegativeShift
	// InvalidOpcode indicates a byte that is not a known opcode.
	InvalidOpcode
	// TruncatedOperand indicates an operand running past the end of the code.
	TruncatedOperand
	// InvalidJump indicates a jump target outside the code.
	InvalidJump
	// StepLimit indicates the configured instruction budget was exhausted.
	StepLimit
	// OutputFailure indicates PRINT could not write to the output sink.
	OutputFailure
	// Canceled indicates the context passed to Run was canceled.
	Canceled
)

var kindNames = map[Kind]string{
	StackUnderflow:   "stack underflow",
	StackOverflow:    "stack overflow",
	LocalOutOfRange:  "local slot out of range",
	DivisionByZero:   "division by zero",
	NegativeShift:    "negative shift count",
	InvalidOpcode:    "invalid opcode",
	TruncatedOperand: "truncated operand",
	InvalidJump:      "invalid jump target",
	StepLimit:        "step limit exceeded",
	OutputFailure:    "output failure",
	Canceled:         "execution canceled",
}

// String returns the string representation of the fault kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "runtime fault"
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Fault is a fatal runtime error raised by the virtual machine.
type Fault struct {
	Kind    Kind
	Offset  int    // byte offset of the faulting instruction
	Opcode  string // mnemonic of the faulting instruction, if it decoded
	Line    int    // source line, when debug info was available
	Message string
	Cause   error
}

// New returns a fault of the given kind at the given offset.
func New(kind Kind, offset int, format string, args ...any) *Fault {
	return &Fault{
		Kind:    kind,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var b bytes.Buffer
	b.WriteString("runtime error: ")
	b.WriteString(f.Kind.String())
	if f.Message != "" {
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	if f.Opcode != "" {
		fmt.Fprintf(&b, " (%s at offset %d)", f.Opcode, f.Offset)
	} else {
		fmt.Fprintf(&b, " (at offset %d)", f.Offset)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the fault.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// Is reports whether target is this fault's Kind, or a *Fault of the same
// Kind.
func (f *Fault) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return f.Kind == t
	case *Fault:
		return f.Kind == t.Kind
	}
	return false
}

// WithCause wraps the fault around a cause.
func (f *Fault) WithCause(cause error) *Fault {
	f.Cause = cause
	return f
}

// WithOpcode records the mnemonic of the faulting instruction.
func (f *Fault) WithOpcode(name string) *Fault {
	f.Opcode = name
	return f
}

// FriendlyErrorMessage returns a multi-line description of the fault that
// includes the source line when it is known.
func (f *Fault) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(f.Error())
	msg.WriteString("\n")
	if f.Line > 0 {
		fmt.Fprintf(&msg, " --> line %d\n", f.Line)
	}
	if f.Cause != nil {
		fmt.Fprintf(&msg, " = cause: %s\n", f.Cause)
	}
	return msg.String()
}
