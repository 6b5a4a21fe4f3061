package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ivylang/ivy/op"
)

var (
	// ErrInvalidOpcode is returned when a byte is not a known opcode.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrTruncatedOperand is returned when an operand runs past the end of
	// the buffer.
	ErrTruncatedOperand = errors.New("truncated operand")
)

// DecodeError describes a decoding failure at a specific offset.
type DecodeError struct {
	Offset int
	Byte   byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d: %s (byte 0x%02x)", e.Offset, e.Err, e.Byte)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Instruction is one decoded instruction.
type Instruction struct {
	Offset  int
	Info    op.Info
	Operand uint64 // raw operand bits; zero when the opcode has none
}

// Opcode returns the instruction's opcode.
func (i Instruction) Opcode() op.Code {
	return i.Info.Code
}

// Size returns the encoded size of the instruction.
func (i Instruction) Size() int {
	return i.Info.Size()
}

// Next returns the offset of the following instruction.
func (i Instruction) Next() int {
	return i.Offset + i.Info.Size()
}

// Int returns the operand interpreted as a signed integer.
func (i Instruction) Int() int64 {
	return int64(i.Operand)
}

// Target returns the absolute destination of a jump instruction. The second
// result is false for instructions that are not jumps.
func (i Instruction) Target() (int, bool) {
	switch i.Info.Operand {
	case op.Offset:
		return i.Next() + int(i.Int()), true
	case op.Address:
		return int(i.Operand), true
	}
	return 0, false
}

// String returns the instruction in assembler form, e.g. "PUSH_INT 42".
func (i Instruction) String() string {
	switch i.Info.Operand {
	case op.None:
		return i.Info.Name
	case op.Int, op.Offset:
		return fmt.Sprintf("%s %d", i.Info.Name, i.Int())
	default:
		return fmt.Sprintf("%s %d", i.Info.Name, i.Operand)
	}
}

// ReadOperand reads the 8-byte little-endian operand starting at offset.
// The second result is false if the buffer is too short.
func ReadOperand(b []byte, offset int) (uint64, bool) {
	if offset < 0 || offset+op.OperandWidth > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[offset : offset+op.OperandWidth]), true
}

// Decode decodes the instruction that starts at offset.
func Decode(b []byte, offset int) (Instruction, error) {
	if offset < 0 || offset >= len(b) {
		return Instruction{}, fmt.Errorf("offset %d out of range [0, %d)", offset, len(b))
	}
	info, ok := op.GetInfo(op.Code(b[offset]))
	if !ok {
		return Instruction{}, &DecodeError{Offset: offset, Byte: b[offset], Err: ErrInvalidOpcode}
	}
	inst := Instruction{Offset: offset, Info: info}
	if info.HasOperand() {
		operand, ok := ReadOperand(b, offset+1)
		if !ok {
			return Instruction{}, &DecodeError{Offset: offset, Byte: b[offset], Err: ErrTruncatedOperand}
		}
		inst.Operand = operand
	}
	return inst, nil
}

// Iter walks a buffer one instruction at a time:
//
//	it := bytecode.NewIter(code)
//	for it.Next() {
//		inst := it.Instruction()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type Iter struct {
	code []byte
	pos  int
	inst Instruction
	err  error
}

// NewIter returns an iterator positioned before the first instruction.
func NewIter(code *Code) *Iter {
	var b []byte
	if code != nil {
		b = code.code
	}
	return &Iter{code: b}
}

// Next advances to the next instruction. It returns false at the end of the
// buffer or on the first decoding error.
func (it *Iter) Next() bool {
	if it.err != nil || it.pos >= len(it.code) {
		return false
	}
	inst, err := Decode(it.code, it.pos)
	if err != nil {
		it.err = err
		return false
	}
	it.inst = inst
	it.pos = inst.Next()
	return true
}

// Instruction returns the current instruction.
func (it *Iter) Instruction() Instruction {
	return it.inst
}

// Err returns the decoding error that stopped iteration, if any.
func (it *Iter) Err() error {
	return it.err
}

// DecodeAll decodes every instruction in the buffer.
func DecodeAll(code *Code) ([]Instruction, error) {
	var out []Instruction
	it := NewIter(code)
	for it.Next() {
		out = append(out, it.Instruction())
	}
	return out, it.Err()
}
